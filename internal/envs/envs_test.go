package envs

import "testing"

func TestFlags(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "", want: false},
		{value: "0", want: false},
		{value: "false", want: false},
		{value: "1", want: true},
		{value: "yes", want: true},
	}

	for _, test := range tests {
		t.Run(test.value, func(t *testing.T) {
			t.Setenv(ForceStub, test.value)
			t.Setenv(MaintenanceInplace, test.value)
			if got := StubForced(); got != test.want {
				t.Errorf("StubForced() = %v, want %v", got, test.want)
			}
			if got := IsMaintenanceInplace(); got != test.want {
				t.Errorf("IsMaintenanceInplace() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestReady(t *testing.T) {
	t.Setenv(Ready, "")
	if IsReady() {
		t.Fatal("IsReady() = true for empty variable")
	}
	if err := SetReady(true); err != nil {
		t.Fatal(err)
	}
	if !IsReady() {
		t.Error("IsReady() = false after SetReady(true)")
	}
	if err := SetReady(false); err != nil {
		t.Fatal(err)
	}
	if IsReady() {
		t.Error("IsReady() = true after SetReady(false)")
	}
}

func TestAlias(t *testing.T) {
	t.Setenv(ConfAlias, "main")
	if got := Alias(); got != "main" {
		t.Errorf("Alias() = %q", got)
	}
	t.Setenv(Maintenance, "/tmp/maintenance")
	if got := MaintenanceTrigger(); got != "/tmp/maintenance" {
		t.Errorf("MaintenanceTrigger() = %q", got)
	}
}
