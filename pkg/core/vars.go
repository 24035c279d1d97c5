package core

// Magic variables expanded by the server when it parses a configuration.
// They cannot be passed on the command line.
const (
	VarVersion      = "%V"
	VarCPUCores     = "%k"
	VarHostname     = "%h"
	VarUID          = "%U"
	VarGID          = "%G"
	VarUsername     = "%u"
	VarGroupname    = "%g"
	VarCWD          = "%c"
	VarConfFile     = "%p"
	VarConfFilename = "%s"
	VarConfName     = "%n"
	VarConfDir      = "%d"
	VarExecutable   = "%x"
	VarTimestamp    = "%t"
	VarEpoch        = "%T"
)

// VarDescriptions lists the magic variables in print order.
var VarDescriptions = []struct {
	Var         string
	Description string
}{
	{VarVersion, "server version"},
	{VarCPUCores, "detected CPU cores"},
	{VarHostname, "hostname"},
	{VarUID, "user id"},
	{VarGID, "group id"},
	{VarUsername, "user name"},
	{VarGroupname, "group name"},
	{VarCWD, "current working directory"},
	{VarConfFile, "absolute path of the configuration file"},
	{VarConfFilename, "filename of the configuration file"},
	{VarConfName, "configuration file name without extension"},
	{VarConfDir, "directory of the configuration file"},
	{VarExecutable, "server executable"},
	{VarTimestamp, "unix time in seconds"},
	{VarEpoch, "unix time in microseconds"},
}

// IsVar reports whether s is one of the two-character magic variables.
func IsVar(s string) bool {
	return len(s) == 2 && s[0] == '%'
}
