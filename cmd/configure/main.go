// Command configure inspects how a component's configuration resolves:
// which environment variable each field maps to, what the project
// manifest supplies, and which layer wins.
//
//	configure --manifest deploy/Configure.toml myservice addr timeout
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/alecthomas/kingpin/v2"

	"github.com/withoutboats/configure"
)

func main() {
	app := kingpin.New("configure", "Inspect configuration resolution for a component namespace")
	manifestPath := app.Flag("manifest", "Manifest file to inspect (discovered when omitted)").Short('m').String()
	envPrefix := app.Flag("env-prefix", "Prefix applied to environment variable names").String()
	namespace := app.Arg("namespace", "Component namespace to inspect").Required().String()
	fieldNames := app.Arg("field", "Field names to resolve (defaults to the manifest table's keys)").Strings()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := run(*manifestPath, *envPrefix, *namespace, *fieldNames); err != nil {
		fmt.Fprintf(os.Stderr, "configure: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, envPrefix, namespace string, fieldNames []string) error {
	manifest := &configure.ManifestSource{Path: manifestPath}

	table, err := manifest.Table(namespace)
	if err != nil {
		if !errors.Is(err, configure.ErrManifestNotFound) {
			return err
		}
		table = map[string]any{}
		fmt.Println("manifest: not found")
	} else {
		location, _ := manifest.Locate()
		fmt.Printf("manifest: %s\n", location)
	}

	names := fieldNames
	if len(names) == 0 {
		for name := range table {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	if len(names) == 0 {
		fmt.Printf("namespace %q: no fields to inspect\n", namespace)
		return nil
	}

	env := configure.EnvSource{Prefix: envPrefix}
	fields := make([]configure.Field, len(names))
	for i, name := range names {
		fields[i] = configure.Field{Name: name}
	}
	fromEnv, err := env.Resolve(namespace, fields)
	if err != nil {
		return err
	}

	for _, name := range names {
		envName := envPrefix + configure.EnvName(namespace, name)
		switch {
		case fromEnv[name] != nil:
			fmt.Printf("%-24s %-32s = %v (environment)\n", name, envName, fromEnv[name])
		case table[name] != nil:
			fmt.Printf("%-24s %-32s = %v (manifest)\n", name, envName, table[name])
		default:
			fmt.Printf("%-24s %-32s   absent\n", name, envName)
		}
	}
	return nil
}
