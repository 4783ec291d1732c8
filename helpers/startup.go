package helpers

import (
	"fmt"
	"os"

	"github.com/mynaparrot/speech-translate/pkg/config"
	"gopkg.in/yaml.v3"
)

// ReadYamlConfigFile loads the optional config file. An empty name returns
// the defaults.
func ReadYamlConfigFile(cnfFile string) (*config.AppConfig, error) {
	if cnfFile == "" {
		appCnf := config.NewAppConfig()
		return appCnf, setRootDir(appCnf)
	}
	return readYaml(cnfFile)
}

func readYaml(filename string) (*config.AppConfig, error) {
	yamlFile, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}

	appCnf := new(config.AppConfig)
	err = yaml.Unmarshal(yamlFile, appCnf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", config.ErrConfiguration, filename, err)
	}
	appCnf.SetDefaults()

	return appCnf, setRootDir(appCnf)
}

func setRootDir(appCnf *config.AppConfig) error {
	// get current working dir
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	// set the root path
	appCnf.RootWorkingDir = wd
	return nil
}
