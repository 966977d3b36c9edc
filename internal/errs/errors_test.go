package errs

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestConfigurationErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigurationError
		want []string
	}{
		{
			name: "reason only",
			err:  &ConfigurationError{Reason: "no input source"},
			want: []string{"configuration error: no input source"},
		},
		{
			name: "with source and cause",
			err:  &ConfigurationError{Source: "cmds.yaml", Reason: "read failed", Cause: fs.ErrNotExist},
			want: []string{"in cmds.yaml", "read failed", "file does not exist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, w := range tt.want {
				if !strings.Contains(msg, w) {
					t.Errorf("Error() = %q, want it to contain %q", msg, w)
				}
			}
		})
	}
}

func TestConfigWrapPreservesChain(t *testing.T) {
	err := ConfigWrap(fs.ErrPermission, "a.yaml", "reading file")
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("ConfigWrap should keep the cause reachable through errors.Is")
	}
	if !IsConfiguration(Wrap(err, "loading")) {
		t.Error("IsConfiguration should see through Wrap")
	}
	if ConfigWrap(nil, "a.yaml", "x") != nil {
		t.Error("ConfigWrap(nil) should return nil")
	}
}

func TestNotFound(t *testing.T) {
	err := Wrapf(&NotFoundError{Resource: "command", ID: "deploy"}, "building %s", "deploy")
	if !IsNotFound(err) {
		t.Fatal("IsNotFound should see through Wrapf")
	}
	if !strings.Contains(err.Error(), "command not found: deploy") {
		t.Errorf("unexpected message %q", err.Error())
	}
	if Wrap(nil, "x") != nil || Wrapf(nil, "x %d", 1) != nil {
		t.Error("Wrap/Wrapf should return nil for nil errors")
	}
}
