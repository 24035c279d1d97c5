// Package conf implements drop-in configuration file support for the
// uwsgiconf tool.
//
// # Usage
//
// The global Configuration variable is automatically loaded at package initialization:
//
//	import "github.com/redhatinsights/uwsgiconf/internal/conf"
//
//	func main() {
//	    fmt.Println(conf.Configuration.UwsgiBinary)
//	}
//
// For custom configuration loading (e.g., testing), use ConfigSource:
//
//	cs := &conf.ConfigSource{
//	    Path:      "/custom/path/config.toml",
//	    DropInDir: "/custom/path/config.toml.d",
//	}
//	config, err := cs.Read()
//
// # Load Order
//
// Config is loaded and applied in three layers:
//
//  1. Embedded defaults (config.toml next to this file)
//  2. Main config file: /etc/uwsgiconf/config.toml
//  3. Drop-in files: /etc/uwsgiconf/config.toml.d/*.toml, in lexicographic order
//
// # Internal Architecture
//
//   - configDTO: internal struct with pointer fields for TOML parsing.
//     Pointers allow distinguishing "not set" (nil) from "set to zero value".
//
//   - Config: public struct with value fields. Has Update() method
//     to apply DTO values.
//
//   - ConfigSource: orchestrates loading from multiple sources and manages
//     their merging.
package conf
