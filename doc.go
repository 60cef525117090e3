// Package configure decouples what configuration a component needs from
// where configuration values come from.
//
// A component declares its configuration as a plain struct and resolves
// it with Generate. The final application decides, once at startup,
// where values are resolved from by installing a Source; libraries never
// see or thread that choice through their APIs.
//
// Quick Start:
//
//	type Config struct {
//	    Addr    string        `config:"addr"`
//	    Timeout time.Duration `config:"timeout" default:"30s"`
//	    Debug   *bool         `config:"debug"`
//	}
//
//	func (Config) ConfigureNamespace() string { return "myservice" }
//
//	var cfg Config
//	if err := configure.Generate(&cfg); err != nil {
//	    return err
//	}
//
// With no explicit installation, values come from the default source:
// environment variables first (MYSERVICE_ADDR, MYSERVICE_TIMEOUT), then
// a project manifest file's package.metadata.myservice table. An
// application that wants a different source installs it before any
// component resolves configuration:
//
//	configure.MustInstall(configure.Fallback(
//	    remoteSource,
//	    configure.EnvSource{},
//	))
//
// Installation happens at most once for the life of the process; a
// second install is a usage error and fails loudly rather than silently
// replacing the source other components already resolved against.
//
// Regenerate repeats the lookup and overwrites an existing record in
// place, all-or-nothing: if the new environment is invalid the record is
// left exactly as it was and the error is returned. Long-lived
// components can therefore attempt a reload (for example when a
// ManifestSource watcher fires) without risking a half-updated state.
//
// The package never logs and never retries; every failure propagates
// synchronously to the caller as a SourceError or DecodeError.
package configure
