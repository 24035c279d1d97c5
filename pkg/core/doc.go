// Package core implements the configuration model shared by sections and
// option groups.
//
// # Store
//
// Every section owns a Store: an insertion-ordered mapping from directive
// key to a scalar value or a list of values. Directives are emitted in the
// order they were written, except where a write explicitly asks for a
// Priority position.
//
// # Writes
//
// All option groups funnel into Base.Set:
//
//	b.Set("master", true, core.AsBool())
//	b.Set("plugin", "python3", core.Multi())
//	b.Set("plugins-dir", dirs, core.Multi(), core.Priority(0))
//
// A nil value is skipped. AsBool writes "true" for truthy values and
// removes the key for falsy ones. Multi appends.
//
// Option groups take plain bool fields as "enable when true" and wrap them
// in NonZero so false leaves the store untouched. Fields that must be able
// to turn a directive off are *bool.
//
// # Values
//
// Param values render into the server's "name:arg1 arg2" grammars. A Param
// can require a plugin, force the key it is written under and carry
// companion options. Those side effects happen at write time, so the
// plugin directive always precedes the directive that requires it and
// rendering stays free of side effects.
//
// KeyValue renders "k1=v1,k2=v2" and Templated renders printf-style
// templates such as "${uwsgi[%s]}".
package core
