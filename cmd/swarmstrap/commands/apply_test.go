package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_Flags(t *testing.T) {
	cmd := Apply()

	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "", flag.DefValue)
}

func TestInit_Flags(t *testing.T) {
	cmd := Init()

	require.NotNil(t, cmd.Flags().Lookup("force"))
	require.NotNil(t, cmd.Flags().Lookup("no-input"))
}

func TestStatus_Flags(t *testing.T) {
	cmd := Status()
	require.NotNil(t, cmd.Flags().Lookup("config"))
}

func TestCompletion_RejectsUnknownShell(t *testing.T) {
	cmd := Completion()
	cmd.SetArgs([]string{"tcsh"})
	assert.Error(t, cmd.Execute())
}
