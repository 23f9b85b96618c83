package autostart

import "testing"

func TestCommandLine(t *testing.T) {
	tests := []struct {
		exe  string
		args []string
		want string
	}{
		{`C:\Tools\autoscroll.exe`, nil, `C:\Tools\autoscroll.exe`},
		{`C:\Program Files\autoscroll\autoscroll.exe`, nil, `"C:\Program Files\autoscroll\autoscroll.exe"`},
		{`C:\a.exe`, []string{"-config", `D:\my cfg.yaml`}, `C:\a.exe -config "D:\my cfg.yaml"`},
	}
	for _, tt := range tests {
		if got := commandLine(tt.exe, tt.args); got != tt.want {
			t.Errorf("commandLine(%q, %v) = %s, want %s", tt.exe, tt.args, got, tt.want)
		}
	}
}
