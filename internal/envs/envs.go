package envs

import (
	"os"
)

const (
	ConfAlias          = "UWSGICONF_CONF_ALIAS"
	Ready              = "UWSGICONF_READY"
	ForceStub          = "UWSGICONF_FORCE_STUB"
	Maintenance        = "UWSGICONF_MAINTENANCE"
	MaintenanceInplace = "UWSGICONF_MAINTENANCE_INPLACE"
)

// Alias -> UWSGICONF_CONF_ALIAS
func Alias() string {
	return os.Getenv(ConfAlias)
}

// IsReady -> UWSGICONF_READY
func IsReady() bool {
	return os.Getenv(Ready) != ""
}

// SetReady sets or clears UWSGICONF_READY.
func SetReady(ready bool) error {
	if ready {
		return os.Setenv(Ready, "1")
	}
	return os.Unsetenv(Ready)
}

// StubForced -> UWSGICONF_FORCE_STUB
func StubForced() bool {
	return flag(ForceStub)
}

// MaintenanceTrigger -> UWSGICONF_MAINTENANCE
func MaintenanceTrigger() string {
	return os.Getenv(Maintenance)
}

// IsMaintenanceInplace -> UWSGICONF_MAINTENANCE_INPLACE
func IsMaintenanceInplace() bool {
	return flag(MaintenanceInplace)
}

func flag(name string) bool {
	switch os.Getenv(name) {
	case "", "0", "false":
		return false
	}
	return true
}
