package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
)

// Build-time variables injected via ldflags.
var (
	Version        = "v0.0.0"
	CommitHash     = "dev"
	BuildTimestamp = "1970-01-01T00:00:00Z"
	Builder        = "unknown"
	GithubRepo     = "trayforge/trayforge"
)

func versionString() string {
	return fmt.Sprintf("trayforge %s-%s", Version, CommitHash)
}

func versionStringLong() string {
	return fmt.Sprintf("trayforge %s-%s (built %s using %s)\nhttps://github.com/%s\n",
		Version, CommitHash, BuildTimestamp, Builder, GithubRepo)
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmsgprefix)
	log.SetPrefix("[trayforge] ")

	showVersion := flag.Bool("version", false, "show version and exit")
	doUpdate := flag.Bool("update", false, "check and update to latest release")
	configFile := flag.String("config", defaultConfigPath, "project config file")
	iconSize := flag.Int("icon-size", 0, "icon size in pixels (env: TRAYFORGE_ICON_SIZE)")
	iconStyle := flag.String("icon-style", "", "icon style: solid, badge (env: TRAYFORGE_ICON_STYLE)")
	iconFill := flag.String("icon-fill", "", "icon fill color as r,g,b (env: TRAYFORGE_ICON_FILL)")
	distDir := flag.String("dist-dir", "", "distribution directory (env: TRAYFORGE_DIST_DIR)")
	appVersion := flag.String("app-version", "", "version to stamp into the version-info file")
	appUAC := flag.String("app-uac", "", "UAC level for the application manifest: asInvoker, highestAvailable, requireAdministrator")
	installerUAC := flag.String("installer-uac", "", "UAC level for the installer manifest")
	signCert := flag.String("sign-cert", "", "path to the code signing certificate (.pfx)")
	flag.Usage = func() {
		fmt.Print(versionStringLong())
		fmt.Fprintf(os.Stderr, "\nUsage: %s [options] <command>\n\n", os.Args[0])
		fmt.Fprint(os.Stderr, "Commands:\n"+
			"  init       write a default trayforge.json\n"+
			"  icon       generate the application icon\n"+
			"  clean      remove build artifacts\n"+
			"  build      run the application packaging command\n"+
			"  installer  run the installer packaging command\n"+
			"  package    assemble the release zip and update artifact\n"+
			"  all        clean, icon, build, installer, package\n"+
			"  preview    show the generated icon in the system tray\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Print(versionStringLong())
		return
	}

	if *doUpdate {
		selfUpdate()
		return
	}

	command := flag.Arg(0)
	if command == "" {
		flag.Usage()
		os.Exit(2)
	}

	if command == "init" {
		cfg := defaultConfig()
		if err := saveConfig(cfg, *configFile); err != nil {
			log.Fatalf("Init failed: %v", err)
		}
		fmt.Printf("Created %s\n", *configFile)
		return
	}

	cfg := loadConfig(*configFile)
	applyOverrides(&cfg, overrides{
		IconSize:  *iconSize,
		IconStyle: *iconStyle,
		IconFill:  *iconFill,
		DistDir:   *distDir,
		SignCert:  *signCert,
	})

	steps := stepContext{
		cfg:          cfg,
		appVersion:   *appVersion,
		appUAC:       *appUAC,
		installerUAC: *installerUAC,
	}

	var err error
	switch command {
	case "icon":
		err = steps.icon()
	case "clean":
		err = steps.clean()
	case "build":
		err = steps.build()
	case "installer":
		err = steps.installer()
	case "package":
		err = steps.pack()
	case "all":
		err = steps.all()
	case "preview":
		runPreview(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", command)
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", command, err)
	}
}

// overrides holds CLI flag values for config overrides.
type overrides struct {
	IconSize  int
	IconStyle string
	IconFill  string
	DistDir   string
	SignCert  string
}

// applyIntOverride applies an int override from env var and flag.
// The env value is parsed with Atoi; both env and flag values are accepted only if valid returns true.
func applyIntOverride(target *int, envKey string, flagVal int, valid func(int) bool) {
	if v := os.Getenv(envKey); v != "" {
		if i, err := strconv.Atoi(v); err != nil || !valid(i) {
			log.Printf("Ignoring invalid %s=%q", envKey, v)
		} else {
			*target = i
		}
	}
	if valid(flagVal) {
		*target = flagVal
	}
}

// applyStringOverride applies a string override from env var and flag.
// Non-empty values are accepted only if valid returns true.
func applyStringOverride(target *string, envKey, flagName, flagVal string, valid func(string) bool) {
	if v := os.Getenv(envKey); v != "" {
		if !valid(v) {
			log.Printf("Ignoring invalid %s=%q", envKey, v)
		} else {
			*target = v
		}
	}
	if flagVal != "" {
		if !valid(flagVal) {
			log.Printf("Ignoring invalid -%s=%q", flagName, flagVal)
		} else {
			*target = flagVal
		}
	}
}

// applyOverrides applies env vars and flags to config. Priority: flag > env > config file.
func applyOverrides(cfg *Config, o overrides) {
	applyIntOverride(&cfg.Icon.Size, "TRAYFORGE_ICON_SIZE", o.IconSize,
		func(i int) bool { return i > 0 })
	applyStringOverride(&cfg.Icon.Style, "TRAYFORGE_ICON_STYLE", "icon-style", o.IconStyle, ValidIconStyle)
	applyStringOverride(&cfg.Icon.Fill, "TRAYFORGE_ICON_FILL", "icon-fill", o.IconFill,
		func(s string) bool { _, err := parseFill(s); return err == nil })
	applyStringOverride(&cfg.DistDir, "TRAYFORGE_DIST_DIR", "dist-dir", o.DistDir,
		func(s string) bool { return s != "" })
	if o.SignCert != "" {
		cfg.Sign.Certificate = o.SignCert
	}
}
