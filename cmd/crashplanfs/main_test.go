package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/billy"
	"github.com/jmgilman/go/crashplanfs/fs/core"
)

const testLog = "../../testdata/backup_files.log.0"

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_Commands(t *testing.T) {
	common := []string{"--log-file", testLog, "--area", "memory"}

	t.Run("ls", func(t *testing.T) {
		out, err := runCLI(t, append([]string{"ls"}, append(common, "/my/crashplan/backups")...)...)
		require.NoError(t, err)
		assert.Equal(t, "bureau\nhypervisor\nkinks\nvms\n", out)
	})

	t.Run("ls with root", func(t *testing.T) {
		out, err := runCLI(t, append([]string{"ls", "--root", "/my/crashplan/backups/vms"}, common...)...)
		require.NoError(t, err)
		assert.Equal(t, "empty_dir\nfinn\ngabarolas\n", out)
	})

	t.Run("stat", func(t *testing.T) {
		out, err := runCLI(t, append([]string{"stat"}, append(common,
			"/my/crashplan/backups/vms/finn/finn-2018-08-15_00-09-00/finn-5-s004.vmdk")...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "\tfile\t2018-08-23T14:45:00Z\t-\tremote")
	})

	t.Run("tree", func(t *testing.T) {
		out, err := runCLI(t, append([]string{"tree"}, append(common, "/my/crashplan/backups/bureau")...)...)
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			"/my/crashplan/backups/bureau",
			"/my/crashplan/backups/bureau/2018",
			"/my/crashplan/backups/bureau/2018/taxes.pdf",
		}, "\n")+"\n", out)
	})

	t.Run("url", func(t *testing.T) {
		out, err := runCLI(t, append([]string{"url"}, append(common, "/my/crashplan/backups/kinks")...)...)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "crashplanfs:///my/crashplan/backups/kinks?logfile="))
	})

	t.Run("gc", func(t *testing.T) {
		out, err := runCLI(t, append([]string{"gc"}, common...)...)
		require.NoError(t, err)
		assert.Equal(t, "scanned 0, removed 0, kept 0, failed 0\n", out)
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := runCLI(t, append([]string{"stat"}, common...)...)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	})

	t.Run("too many paths", func(t *testing.T) {
		_, err := runCLI(t, append([]string{"ls"}, append(common, "/a", "/b")...)...)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	})

	t.Run("not found", func(t *testing.T) {
		_, err := runCLI(t, append([]string{"stat"}, append(common, "/nope")...)...)
		assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	})
}

func TestRun_Stage(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes", "todo.txt"), []byte("x"), 0o644))

	area := t.TempDir()
	common := []string{"--log-file", testLog, "--area", "local", "--area-path", area}

	t.Run("copies into the area", func(t *testing.T) {
		out, err := runCLI(t, append([]string{"stage"}, append(common, src, "/my/crashplan/backups/kinks")...)...)
		require.NoError(t, err)
		assert.Contains(t, out, "staged ")

		data, err := os.ReadFile(filepath.Join(area, "my", "crashplan", "backups", "kinks", "notes", "todo.txt"))
		require.NoError(t, err)
		assert.Equal(t, "x", string(data))
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := runCLI(t, append([]string{"stage"}, append(common, filepath.Join(src, "absent"))...)...)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	})

	t.Run("no arguments", func(t *testing.T) {
		_, err := runCLI(t, append([]string{"stage"}, common...)...)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
	})
}

func TestRun_Usage(t *testing.T) {
	_, err := runCLI(t)
	assert.Error(t, err)

	_, err = runCLI(t, "bogus")
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))

	out, err := runCLI(t, "help")
	require.NoError(t, err)
	assert.Contains(t, out, "Commands:")

	out, err = runCLI(t, "ls", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--log-file")

	_, err = runCLI(t, "ls", "--no-such-flag")
	assert.Error(t, err)
}

func TestRun_Config(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "crashplanfs.yaml")
	abs, err := filepath.Abs(testLog)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg, []byte(`
root: /my/crashplan/backups
log_file: `+abs+`
transfer_area:
  kind: memory
log:
  level: debug
  format: json
`), 0o644))

	out, err := runCLI(t, "ls", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "bureau\nhypervisor\nkinks\nvms\n", out)

	// Flags override the file.
	out, err = runCLI(t, "ls", "-c", cfg, "--root", "/my/crashplan/backups/kinks")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt\n", out)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("full", func(t *testing.T) {
		p := filepath.Join(dir, "full.yaml")
		require.NoError(t, os.WriteFile(p, []byte(`
root: /data
log_dir: /var/log/crashplan
create: true
prefer_local: true
local_root: /srv
temp_dir: /tmp/stage
transfer_area:
  kind: minio
  minio:
    endpoint: localhost:9000
    bucket: staging
    access_key: key
    secret_key: secret
    use_ssl: true
    prefix: area
log:
  level: info
  format: text
`), 0o644))

		cfg, err := loadConfig(p)
		require.NoError(t, err)
		assert.Equal(t, Config{
			Root:        "/data",
			LogDir:      "/var/log/crashplan",
			Create:      true,
			PreferLocal: true,
			LocalRoot:   "/srv",
			TempDir:     "/tmp/stage",
			Area: AreaConfig{
				Kind: "minio",
				MinIO: MinIOConfig{
					Endpoint:  "localhost:9000",
					Bucket:    "staging",
					AccessKey: "key",
					SecretKey: "secret",
					UseSSL:    true,
					Prefix:    "area",
				},
			},
			Log: LogConfig{Level: "info", Format: "text"},
		}, cfg)
	})

	t.Run("unknown key", func(t *testing.T) {
		p := filepath.Join(dir, "unknown.yaml")
		require.NoError(t, os.WriteFile(p, []byte("colour: blue\n"), 0o644))
		_, err := loadConfig(p)
		assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
	})

	t.Run("missing", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(dir, "missing.yaml"))
		assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
	})
}

func TestMerge(t *testing.T) {
	var flags Config
	set := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(set, &flags)
	require.NoError(t, set.Parse([]string{"--prefer-local", "--log-level", "debug"}))

	base := Config{Root: "/base", PreferLocal: false, Log: LogConfig{Level: "error", Format: "json"}}
	got := merge(base, flags, set)

	assert.Equal(t, "/base", got.Root)
	assert.True(t, got.PreferLocal)
	assert.Equal(t, "debug", got.Log.Level)
	assert.Equal(t, "json", got.Log.Format)

	assert.Equal(t, "/", merge(Config{}, flags, set).Root)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger(LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger, err = newLogger(LogConfig{}, &buf)
	require.NoError(t, err)
	logger.Info("quiet")
	assert.Empty(t, buf.String())

	_, err = newLogger(LogConfig{Level: "loud"}, &buf)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))

	_, err = newLogger(LogConfig{Format: "xml"}, &buf)
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
}

func TestTransferArea(t *testing.T) {
	area, err := transferArea(AreaConfig{})
	require.NoError(t, err)
	assert.Nil(t, area)

	area, err = transferArea(AreaConfig{Kind: "memory"})
	require.NoError(t, err)
	assert.Equal(t, core.FSTypeMemory, area.Type())

	dir := t.TempDir()
	area, err = transferArea(AreaConfig{Kind: "local", Path: dir})
	require.NoError(t, err)
	local, ok := area.(*billy.LocalFS)
	require.True(t, ok)
	assert.Equal(t, dir, local.Root())

	_, err = transferArea(AreaConfig{Kind: "local"})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))

	_, err = transferArea(AreaConfig{Kind: "minio"})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))

	area, err = transferArea(AreaConfig{Kind: "minio", MinIO: MinIOConfig{
		Endpoint: "localhost:9000", Bucket: "staging", AccessKey: "k", SecretKey: "s",
	}})
	require.NoError(t, err)
	assert.Equal(t, core.FSTypeRemote, area.Type())

	_, err = transferArea(AreaConfig{Kind: "ftp"})
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
}
