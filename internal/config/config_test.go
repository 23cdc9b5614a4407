package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeConfigFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("os write file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v := NewViper()
	v.Set(KeySchemaPath, "schema.json")
	v.Set(KeyRootName, "Root")

	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.OutputPath != StdoutPath || !cfg.WritesToStdout() {
		t.Errorf("OutputPath = %q, want %q", cfg.OutputPath, StdoutPath)
	}
	if cfg.LogLevel != "INFO" {
		t.Errorf("LogLevel = %q, want INFO", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		t.Errorf("LogFile = %q, want empty", cfg.LogFile)
	}
}

func TestLoadPrecedence(t *testing.T) {
	configFile := writeConfigFile(t, "config.yaml", "schema_path: from_file.json\nroot_name: FromFile\noutput_path: out.py\nlog_level: debug\n")

	t.Setenv("TYPEDDICT_ROOT_NAME", "FromEnv")
	t.Setenv("TYPEDDICT_OUTPUT_PATH", "env.py")

	v := NewViper()
	v.Set(KeyOutputPath, "flag.py")

	cfg, err := Load(v, configFile)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := Config{
		SchemaPath: "from_file.json",
		OutputPath: "flag.py",
		RootName:   "FromEnv",
		LogLevel:   "DEBUG",
	}
	if *cfg != want {
		t.Errorf("Load = %+v, want %+v", *cfg, want)
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".typeddict.json"), []byte(`{"schema_path": "s.json", "root_name": "Named"}`), 0o600); err != nil {
		t.Fatalf("os write file: %v", err)
	}
	t.Chdir(dir)

	cfg, err := Load(NewViper(), "")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.SchemaPath != "s.json" || cfg.RootName != "Named" {
		t.Errorf("Load = %+v, want the values of the default config file", *cfg)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	if _, err := Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load error = nil, want an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{SchemaPath: "schema.json", OutputPath: "-", RootName: "Root", LogLevel: "INFO"}

	tests := []struct {
		name    string
		modify  func(cfg *Config)
		wantErr bool
	}{
		{name: "valid", modify: func(cfg *Config) {}},
		{name: "underscore root name", modify: func(cfg *Config) { cfg.RootName = "_private_root" }},
		{name: "unicode root name", modify: func(cfg *Config) { cfg.RootName = "Größe" }},
		{name: "missing schema path", modify: func(cfg *Config) { cfg.SchemaPath = "" }, wantErr: true},
		{name: "missing root name", modify: func(cfg *Config) { cfg.RootName = "" }, wantErr: true},
		{name: "keyword root name", modify: func(cfg *Config) { cfg.RootName = "class" }, wantErr: true},
		{name: "digit first root name", modify: func(cfg *Config) { cfg.RootName = "1Root" }, wantErr: true},
		{name: "dashed root name", modify: func(cfg *Config) { cfg.RootName = "my-root" }, wantErr: true},
		{name: "unknown log level", modify: func(cfg *Config) { cfg.LogLevel = "VERBOSE" }, wantErr: true},
		{name: "empty output path", modify: func(cfg *Config) { cfg.OutputPath = "" }, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid
			test.modify(&cfg)

			err := cfg.Validate()
			if test.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("Validate error = %v, want %v", err, ErrValidation)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate error: %v", err)
			}
		})
	}
}

func TestGenerateJSONSchema(t *testing.T) {
	schema := GenerateJSONSchema()

	if schema.Title == "" {
		t.Errorf("schema has no title")
	}

	for _, key := range []string{KeySchemaPath, KeyOutputPath, KeyRootName, KeyLogLevel, KeyLogFile} {
		if _, ok := schema.Properties.Get(key); !ok {
			t.Errorf("schema has no property %s", key)
		}
	}

	for _, key := range []string{KeySchemaPath, KeyRootName} {
		if !slices.Contains(schema.Required, key) {
			t.Errorf("schema does not require %s (required: %v)", key, schema.Required)
		}
	}

	logLevel, _ := schema.Properties.Get(KeyLogLevel)
	if len(logLevel.Enum) != 4 {
		t.Errorf("log_level enum = %v, want 4 levels", logLevel.Enum)
	}
}
