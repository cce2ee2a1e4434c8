package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/crashplanfs"
	"github.com/jmgilman/go/crashplanfs/errors"
	"github.com/jmgilman/go/crashplanfs/fs/billy"
	"github.com/jmgilman/go/crashplanfs/fs/core"
	"github.com/jmgilman/go/crashplanfs/fs/minio"
)

// Config is the CLI configuration. It is read from the --config YAML file;
// flags given on the command line override it.
type Config struct {
	Root        string     `yaml:"root"`
	LogFile     string     `yaml:"log_file"`
	LogDir      string     `yaml:"log_dir"`
	Create      bool       `yaml:"create"`
	PreferLocal bool       `yaml:"prefer_local"`
	LocalRoot   string     `yaml:"local_root"`
	TempDir     string     `yaml:"temp_dir"`
	Area        AreaConfig `yaml:"transfer_area"`
	Log         LogConfig  `yaml:"log"`
}

// AreaConfig selects the transfer area. An empty Kind lets the filesystem
// choose (local root or ephemeral directory).
type AreaConfig struct {
	Kind  string      `yaml:"kind"` // "", local, memory, minio
	Path  string      `yaml:"path"`
	MinIO MinIOConfig `yaml:"minio"`
}

// MinIOConfig configures an object store transfer area.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// loadConfig reads a YAML config file. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "unable to open config"), "file", path)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "unable to parse config"), "file", path)
	}
	return cfg, nil
}

// bindFlags registers the flags shared by every command.
func bindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Root, "root", "/", "backed-up directory exposed as the view root")
	fs.StringVar(&cfg.LogFile, "log-file", "", "backup log to read (default: discover in --log-dir)")
	fs.StringVar(&cfg.LogDir, "log-dir", "", "directory holding backup_files.log.* files")
	fs.BoolVar(&cfg.Create, "create", false, "create the root in the transfer area if missing")
	fs.BoolVar(&cfg.PreferLocal, "prefer-local", false, "show staged entries newer than the backup")
	fs.StringVar(&cfg.LocalRoot, "local-root", "", "host directory that may mirror the backed-up tree")
	fs.StringVar(&cfg.TempDir, "temp-dir", "", "parent directory for the ephemeral transfer area")
	fs.StringVar(&cfg.Area.Kind, "area", "", "transfer area kind: local, memory or minio")
	fs.StringVar(&cfg.Area.Path, "area-path", "", "host directory for --area=local")
	fs.StringVar(&cfg.Log.Level, "log-level", "warn", "log level: debug, info, warn or error")
	fs.StringVar(&cfg.Log.Format, "log-format", "text", "log format: text or json")
}

// merge copies every flag the user set explicitly from flags onto base.
func merge(base Config, flags Config, set *pflag.FlagSet) Config {
	set.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "root":
			base.Root = flags.Root
		case "log-file":
			base.LogFile = flags.LogFile
		case "log-dir":
			base.LogDir = flags.LogDir
		case "create":
			base.Create = flags.Create
		case "prefer-local":
			base.PreferLocal = flags.PreferLocal
		case "local-root":
			base.LocalRoot = flags.LocalRoot
		case "temp-dir":
			base.TempDir = flags.TempDir
		case "area":
			base.Area.Kind = flags.Area.Kind
		case "area-path":
			base.Area.Path = flags.Area.Path
		case "log-level":
			base.Log.Level = flags.Log.Level
		case "log-format":
			base.Log.Format = flags.Log.Format
		}
	})
	if base.Root == "" {
		base.Root = "/"
	}
	return base
}

// newLogger builds the slog logger described by cfg.
func newLogger(cfg LogConfig, out io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "invalid log level %q", cfg.Level)
		}
	} else {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "invalid log format %q", cfg.Format)
	}
}

// transferArea builds the configured transfer area. A nil area lets the
// filesystem pick one.
func transferArea(cfg AreaConfig) (core.TransferArea, error) {
	switch cfg.Kind {
	case "":
		return nil, nil
	case "local":
		if cfg.Path == "" {
			return nil, errors.New(errors.CodeInvalidConfig, "transfer area path is required for kind local")
		}
		return billy.NewLocal(cfg.Path), nil
	case "memory":
		return billy.NewMemory(), nil
	case "minio":
		area, err := minio.NewMinIO(minio.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			Bucket:    cfg.MinIO.Bucket,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Prefix:    cfg.MinIO.Prefix,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid minio transfer area")
		}
		return area, nil
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unknown transfer area kind %q", cfg.Kind)
	}
}

// options turns cfg into filesystem options.
func options(cfg Config, logger *slog.Logger) ([]crashplanfs.Option, error) {
	area, err := transferArea(cfg.Area)
	if err != nil {
		return nil, err
	}

	opts := []crashplanfs.Option{
		crashplanfs.WithRoot(cfg.Root),
		crashplanfs.WithLogFile(cfg.LogFile),
		crashplanfs.WithLogDir(cfg.LogDir),
		crashplanfs.WithCreate(cfg.Create),
		crashplanfs.WithPreferLocal(cfg.PreferLocal),
		crashplanfs.WithLocalRoot(cfg.LocalRoot),
		crashplanfs.WithTempDir(cfg.TempDir),
		crashplanfs.WithLogger(logger),
	}
	if area != nil {
		opts = append(opts, crashplanfs.WithTransferArea(area))
	}
	return opts, nil
}
