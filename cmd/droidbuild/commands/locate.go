package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/droidbuild/internal/envpaths"
	dberrors "git.home.luguber.info/inful/droidbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/droidbuild/internal/javatool"
	"git.home.luguber.info/inful/droidbuild/internal/logfields"
)

// Components accepted by `droidbuild locate <component>`.
var locateComponents = []string{"sdk", "android-jar", "build-tools", "d8-jar", "java-home", "java", "javac", "javac-version"}

// located is the toolchain plus the probed compiler version.
type located struct {
	envpaths.Toolchain `yaml:",inline"`

	JavacVersion int `json:"javac_version,omitempty" yaml:"javac_version,omitempty"`
}

// LocateCmd implements the 'locate' command.
type LocateCmd struct {
	Component string `arg:"" optional:"" help:"Print only one location: sdk, android-jar, build-tools, d8-jar, java-home, java, javac or javac-version"`
	JSON      bool   `name:"json" help:"Print the toolchain as JSON"`
}

func (l *LocateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	loc := root.Locator(cfg)

	if l.Component != "" {
		p, err := locateOne(g, loc, l.Component)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(g.Stdout, p)
		return nil
	}

	// Print whatever was found even when part of the toolchain is missing.
	tc, resolveErr := loc.Resolve(g.Context)
	res := located{Toolchain: tc}
	if tc.Javac != "" {
		if v, err := javatool.DetectJavacVersion(g.Context, tc.Javac); err == nil {
			res.JavacVersion = v
		} else {
			slog.Debug("Could not detect javac version", logfields.Error(err))
		}
	}
	var out []byte
	if l.JSON {
		out, err = json.MarshalIndent(res, "", "  ")
		out = append(out, '\n')
	} else {
		out, err = yaml.Marshal(res)
	}
	if err != nil {
		return dberrors.InternalError("failed to encode toolchain").WithCause(err).Build()
	}
	_, _ = g.Stdout.Write(out)
	return resolveErr
}

func locateOne(g *Global, loc *envpaths.Locator, component string) (string, error) {
	switch component {
	case "sdk":
		return loc.AndroidSDK()
	case "android-jar":
		p, _, err := loc.AndroidJar("")
		return p, err
	case "build-tools":
		p, _, err := loc.BuildTools("")
		return p, err
	case "d8-jar":
		return loc.D8Jar("")
	case "java-home":
		return loc.JavaHome(g.Context)
	case "java":
		return loc.Java(g.Context)
	case "javac":
		return loc.Javac(g.Context)
	case "javac-version":
		javac, err := loc.Javac(g.Context)
		if err != nil {
			return "", err
		}
		v, err := javatool.DetectJavacVersion(g.Context, javac)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(v), nil
	default:
		return "", dberrors.ValidationError("unknown component " + component).
			WithContext("valid", locateComponents).Build()
	}
}
