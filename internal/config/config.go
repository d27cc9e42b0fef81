package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

// ErrConfiguration marks every error caused by missing or invalid user configuration.
var ErrConfiguration = errors.New("configuration error")

const (
	envPrefix                = "OKC_"
	serviceAccountKeyPathEnv = "GOOGLE_SERVICE_ACCOUNT_KEY_PATH"
	legacyServiceAccountKey  = "serviceaccountkeypath"
)

type Application struct {
	ConfigDir string `koanf:"configdir"`
	LogLevel  string `koanf:"loglevel"`
	Google    Google `koanf:"google"`
	Notion    Notion `koanf:"notion"`
	Hours     Hours  `koanf:"hours"`
}

type Google struct {
	CredentialsFile       string `koanf:"credentialsfile"`
	TokenFile             string `koanf:"tokenfile"`
	ServiceAccountKeyPath string `koanf:"serviceaccountkeypath"`
	CalendarId            string `koanf:"calendarid"`
	RedirectPort          int    `koanf:"redirectport"`
}

type Notion struct {
	ApiToken    string `koanf:"apitoken"`
	BundlesDbId string `koanf:"bundlesdbid"`
	BaseUrl     string `koanf:"baseurl"`
	Version     string `koanf:"version"`
	PageSize    int    `koanf:"pagesize"`
}

type Hours struct {
	DefaultLookbackDays int `koanf:"defaultlookbackdays"`
}

// DefaultDir is ~/.config/okc, the directory holding conf.json and the Google OAuth files.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".okc"
	}
	return filepath.Join(home, ".config", "okc")
}

// DefaultPath is the config file the tool reads when --config is not given.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "conf.json")
}

func defaultServiceAccountKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".okcli-sa-key.json"
	}
	return filepath.Join(home, ".config", ".okcli-sa-key.json")
}

func defaults() Application {
	return Application{
		ConfigDir: DefaultDir(),
		LogLevel:  "",
		Google: Google{
			CalendarId:   "primary",
			RedirectPort: 8085,
		},
		Notion: Notion{
			BaseUrl:  "https://api.notion.com/v1",
			Version:  "2025-09-03",
			PageSize: 100,
		},
		Hours: Hours{
			DefaultLookbackDays: 90,
		},
	}
}

// Load reads defaults, then the file at path (YAML, which also accepts the JSON conf.json),
// then OKC_* environment variables. The result is built once and passed down explicitly.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := loadFile(k, path); err != nil {
		return Application{}, err
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if app.Google.ServiceAccountKeyPath == "" {
		// conf.json files of earlier releases keep the key path at the top level.
		app.Google.ServiceAccountKeyPath = k.String(legacyServiceAccountKey)
	}
	if keyPath := os.Getenv(serviceAccountKeyPathEnv); keyPath != "" {
		app.Google.ServiceAccountKeyPath = keyPath
	} else if app.Google.ServiceAccountKeyPath == "" {
		app.Google.ServiceAccountKeyPath = defaultServiceAccountKeyPath()
	}
	if app.Google.CredentialsFile == "" {
		app.Google.CredentialsFile = filepath.Join(app.ConfigDir, "credentials.json")
	}
	if app.Google.TokenFile == "" {
		app.Google.TokenFile = filepath.Join(app.ConfigDir, "token.json")
	}

	return app, nil
}

// loadFile merges the file at path into k. Keys are lower-cased so that camelCase keys
// written in conf.json (apiToken, bundlesDbId) override the defaults.
func loadFile(k *koanf.Koanf, path string) error {
	fk := koanf.New(".")
	if err := fk.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debugf("Config file not found at %s, using defaults and environment variables", path)
			return nil
		}
		log.Errorf("error loading config from %s: %v", path, err)
		return fmt.Errorf("%w: unable to parse %s: %v", ErrConfiguration, path, err)
	}
	for key, value := range fk.All() {
		if err := k.Set(strings.ToLower(key), value); err != nil {
			return err
		}
	}
	log.Debugf("Loaded configuration from file: %s", path)
	return nil
}

// ValidateNotion reports which Notion setting is missing, if any.
func (a Application) ValidateNotion() error {
	if a.Notion.ApiToken == "" {
		return fmt.Errorf("%w: notion.apiToken is not set (set it in %s or export %sNOTION_APITOKEN)",
			ErrConfiguration, DefaultPath(), envPrefix)
	}
	if a.Notion.BundlesDbId == "" {
		return fmt.Errorf("%w: notion.bundlesDbId is not set (set it in %s or export %sNOTION_BUNDLESDBID)",
			ErrConfiguration, DefaultPath(), envPrefix)
	}
	return nil
}

// HasNotion is true when both Notion settings are present.
func (a Application) HasNotion() bool {
	return a.ValidateNotion() == nil
}
