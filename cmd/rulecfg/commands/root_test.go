package commands

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelWarn},
		{"verbose (1)", 1, slog.LevelInfo},
		{"debug (2)", 2, slog.LevelDebug},
		{"trace (3)", 3, logging.LevelTrace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > logging.LevelTrace {
				shouldBeDisabled := tt.wantLevel - 4
				if logger.Enabled(t.Context(), shouldBeDisabled) {
					t.Errorf("expected level %v to be disabled", shouldBeDisabled)
				}
			}
		})
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		envVal    string
		wantLevel slog.Level
	}{
		{"RULECFG_DEBUG=1", "1", slog.LevelDebug},
		{"RULECFG_DEBUG=true", "true", slog.LevelDebug},
		{"RULECFG_DEBUG=2", "2", logging.LevelTrace},
		{"RULECFG_DEBUG=0", "0", slog.LevelWarn},
		{"RULECFG_DEBUG=unknown", "foo", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = 0
			t.Setenv("RULECFG_DEBUG", tt.envVal)

			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(t.Context(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel == slog.LevelDebug && logger.Enabled(t.Context(), logging.LevelTrace) {
				t.Error("expected Trace level to be disabled when RULECFG_DEBUG=1")
			}
		})
	}
}

func TestSetupLogging_FlagPrecedence(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	t.Setenv("RULECFG_DEBUG", "2")
	verbosity = 1

	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("setupLogging failed: %v", err)
	}

	logger := slog.Default()
	if !logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Error("expected Info level to be enabled")
	}
	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Error("expected Debug level to be disabled (flag should override env var)")
	}
}

func TestSetupLogging_Quiet(t *testing.T) {
	origQuiet := quiet
	origVerbosity := verbosity
	defer func() {
		quiet = origQuiet
		verbosity = origVerbosity
	}()

	quiet = true
	verbosity = 0
	if err := setupLogging(rootCmd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if slog.Default().Enabled(t.Context(), slog.LevelWarn) {
		t.Error("expected Warn level to be disabled in quiet mode")
	}

	verbosity = 1
	err := setupLogging(rootCmd)
	if err == nil {
		t.Fatal("expected error for --quiet with --verbose")
	}
	if ExitCode(err) != errors.ExitUser {
		t.Errorf("ExitCode() = %d, want %d", ExitCode(err), errors.ExitUser)
	}
}

func TestSetupLogging_BadFormat(t *testing.T) {
	origFormat := logFormat
	defer func() { logFormat = origFormat }()

	logFormat = "xml"
	if err := setupLogging(rootCmd); err == nil {
		t.Error("expected error for unknown log format")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, errors.ExitSuccess},
		{"plain error", errors.New("boom"), errors.ExitUser},
		{"system error", errors.NewSystemError(errors.New("disk"), ""), errors.ExitSystem},
		{"wrapped exit error", errors.Wrap(errors.NewExitError(nil, 2), "doctor"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.NewExitError(nil, 1))
	if buf.Len() != 0 {
		t.Errorf("silent exit printed %q", buf.String())
	}

	buf.Reset()
	printError(&buf, errors.NewUserError(errors.New("bad level"), "Run with --help"))
	want := "Error: bad level\n  Run with --help\n"
	if buf.String() != want {
		t.Errorf("printError() = %q, want %q", buf.String(), want)
	}

	buf.Reset()
	printError(&buf, errors.WithHint(errors.New("exists"), "use --force"))
	if got := buf.String(); got != "Error: exists\n  hint: use --force\n" {
		t.Errorf("printError() = %q", got)
	}
}
