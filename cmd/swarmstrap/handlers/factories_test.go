package handlers

import "testing"

// saveAndRestoreFactories snapshots every injectable factory variable and
// restores it when the test finishes, so tests can freely swap them.
func saveAndRestoreFactories(t *testing.T) {
	t.Helper()

	origLoadConfigFile := loadConfigFile
	origFindConfigFile := findConfigFile
	origLoadTimeouts := loadTimeouts
	origNewExecutor := newExecutor
	origNewRunner := newRunner
	origNewProber := newProber
	origPrintf := printf
	origRunWizard := runWizard
	origIsTerminal := isTerminal
	origWriteFile := writeFile
	origStatFile := statFile

	t.Cleanup(func() {
		loadConfigFile = origLoadConfigFile
		findConfigFile = origFindConfigFile
		loadTimeouts = origLoadTimeouts
		newExecutor = origNewExecutor
		newRunner = origNewRunner
		newProber = origNewProber
		printf = origPrintf
		runWizard = origRunWizard
		isTerminal = origIsTerminal
		writeFile = origWriteFile
		statFile = origStatFile
	})
}

// captureOutput routes printf into a buffer for assertions.
func captureOutput(t *testing.T) *outputBuffer {
	t.Helper()
	buf := &outputBuffer{}
	printf = buf.printf
	return buf
}
