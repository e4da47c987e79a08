package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validInventory = `
cluster_name: demo
ssh:
  user: vagrant
  private_key: ~/.ssh/id_rsa
hosts:
  - name: leader
    address: 10.0.0.1
    role: leader
  - name: manager1
    address: 10.0.0.2
    role: manager
  - name: worker1
    address: 10.0.0.3
    role: worker
  - name: worker2
    address: 10.0.0.4
    role: worker
`

func TestLoadFromBytes_Valid(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromBytes([]byte(validInventory))
	require.NoError(t, err)

	assert.Equal(t, "demo", cfg.ClusterName)
	assert.Len(t, cfg.Hosts, 4)
	assert.Equal(t, "leader", cfg.Leader().Name)
	assert.Equal(t, "10.0.0.1", cfg.Leader().Address)
	assert.Len(t, cfg.Followers(), 3)
}

func TestLoadFromBytes_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromBytes([]byte(`
cluster_name: demo
ssh:
  private_key: /keys/id_rsa
hosts:
  - name: leader
    address: 10.0.0.1
    role: leader
`))
	require.NoError(t, err)

	assert.Equal(t, "vagrant", cfg.SSH.User)
	assert.Equal(t, 22, cfg.SSH.Port)
	assert.Equal(t, []string{"docker.io"}, cfg.Install.Packages)
	assert.Equal(t, "vagrant", cfg.Install.OperatorUser, "operator user defaults to the ssh user")
}

func TestLoadFromBytes_OperatorUserFollowsSSHUser(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromBytes([]byte(`
cluster_name: demo
ssh:
  user: ubuntu
  private_key: /keys/id_rsa
hosts:
  - name: leader
    address: 10.0.0.1
    role: leader
`))
	require.NoError(t, err)
	assert.Equal(t, "ubuntu", cfg.Install.OperatorUser)
}

func TestLoadFromBytes_NormalizesRoleSpelling(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFromBytes([]byte(`
cluster_name: demo
ssh:
  private_key: /keys/id_rsa
hosts:
  - name: leader
    address: 10.0.0.1
    role: Leader
  - name: manager1
    address: 10.0.0.2
    role: " MANAGER "
  - name: worker1
    address: 10.0.0.3
    role: " worker "
`))
	require.NoError(t, err)

	assert.Equal(t, RoleLeader, cfg.Hosts[0].Role)
	assert.Equal(t, RoleManager, cfg.Hosts[1].Role)
	assert.Equal(t, RoleWorker, cfg.Hosts[2].Role)
	assert.Equal(t, "leader", cfg.Leader().Name)
}

func TestLoadFromBytes_MalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := LoadFromBytes([]byte("hosts: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse inventory YAML")
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "swarmstrap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validInventory), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.ClusterName)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read inventory file")
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := FindConfigFile()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFilename), []byte(validInventory), 0o600))
	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultConfigFilename), path)
}
