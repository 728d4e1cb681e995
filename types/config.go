package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	jsonpatch "github.com/evanphx/json-patch"
	"gopkg.in/yaml.v3"

	"github.com/RussianNLP/RuBLiMP/logger"
)

const (
	PhenomenonAgreement = "agreement"

	DefaultDistractorLabel = "attractor"
)

type AgreementParams struct {
	MinApposHeadDist       int    `yaml:"min_appos_head_dist" json:"min_appos_head_dist"`
	MinApposConstDist      int    `yaml:"min_appos_const_dist" json:"min_appos_const_dist"`
	FloatQMaxDepth         int    `yaml:"floatq_max_depth" json:"floatq_max_depth"`
	FloatQStrictNumGender  bool   `yaml:"floatq_strict_num_gender" json:"floatq_strict_num_gender"`
	ExcludeDashNominalSubj bool   `yaml:"exclude_dash_nominal_subj" json:"exclude_dash_nominal_subj"`
	NonSubjectWindow       int    `yaml:"nonsubject_window" json:"nonsubject_window"`
	DistractorLabel        string `yaml:"distractor_label" json:"distractor_label"`
}

func DefaultAgreementParams() AgreementParams {
	return AgreementParams{
		MinApposHeadDist:       5,
		MinApposConstDist:      2,
		FloatQMaxDepth:         1,
		FloatQStrictNumGender:  true,
		ExcludeDashNominalSubj: true,
		NonSubjectWindow:       4,
		DistractorLabel:        DefaultDistractorLabel,
	}
}

type ParamsConfig struct {
	Agreement AgreementParams `yaml:"agreement" json:"agreement"`
}

// ResourcesConfig points to lexical resources. Relative paths are resolved
// against the resources directory.
type ResourcesConfig struct {
	MorphDictionary     string `yaml:"morph_dictionary" json:"morph_dictionary"`
	FrequencyDictionary string `yaml:"frequency_dictionary" json:"frequency_dictionary"`
	SemPlural           string `yaml:"sem_plural" json:"sem_plural"`
	CommonGender        string `yaml:"common_gender" json:"common_gender"`
	Vocab               string `yaml:"vocab" json:"vocab"`
}

type Configuration struct {
	Name       string          `yaml:"name" json:"name"`
	FilePath   string          `yaml:"-" json:"file_path"`
	Phenomenon string          `yaml:"phenomenon" json:"phenomenon"`
	Params     ParamsConfig    `yaml:"params" json:"params"`
	Resources  ResourcesConfig `yaml:"resources" json:"resources"`
	Workers    int             `yaml:"workers" json:"workers"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		Name:       PhenomenonAgreement,
		Phenomenon: PhenomenonAgreement,
		Params:     ParamsConfig{Agreement: DefaultAgreementParams()},
		Workers:    1,
	}
}

func (cfg Configuration) Validate() error {
	if cfg.Phenomenon == "" {
		return errors.New("phenomenon is not set")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	return nil
}

// ApplyPatch merges a JSON merge patch into the configuration.
func (cfg Configuration) ApplyPatch(patch []byte) (Configuration, error) {
	if len(patch) == 0 {
		return cfg, nil
	}
	orig, err := json.Marshal(cfg)
	if err != nil {
		return cfg, err
	}
	merged, err := jsonpatch.MergePatch(orig, patch)
	if err != nil {
		return cfg, fmt.Errorf("apply params patch: %w", err)
	}
	var out Configuration
	if err := json.Unmarshal(merged, &out); err != nil {
		return cfg, fmt.Errorf("apply params patch: %w", err)
	}
	return out, out.Validate()
}

// LoadConfiguration reads one YAML configuration on top of the defaults.
func LoadConfiguration(filePath string) (Configuration, error) {
	cfg := DefaultConfiguration()
	_, fileName := path.Split(filePath)
	cfg.Name = strings.TrimSuffix(fileName, ".yaml")
	cfg.FilePath = filePath

	buf, err := os.ReadFile(filePath)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", fileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", fileName, err)
	}
	return cfg, nil
}

func LoadConfigurations(dirPath string) ([]Configuration, error) {
	cfgLogger := logger.NewLogger("LoadConfigurations")

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan Configuration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(fileName string) {
			defer wg.Done()
			cfg, err := LoadConfiguration(path.Join(dirPath, fileName))
			if err != nil {
				cfgLogger.Err(err).Str("file", fileName).Msg("Skipping configuration")
				return
			}
			configChan <- cfg
		}(f.Name())
	}

	go func() {
		wg.Wait()
		close(configChan)
	}()

	configs := make([]Configuration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	return configs, nil
}

// FindConfiguration returns the configuration with the given name.
func FindConfiguration(cfgs []Configuration, name string) (Configuration, bool) {
	for _, cfg := range cfgs {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return Configuration{}, false
}
