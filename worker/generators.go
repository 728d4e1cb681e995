package worker

import (
	"fmt"

	"github.com/RussianNLP/RuBLiMP/pipeline"
	"github.com/RussianNLP/RuBLiMP/types"
)

type generatorSource interface {
	getGenerator(task *Task) (pipeline.Generator, types.Configuration, error)
}

// configGenerators resolves the shard task configuration by name and
// applies its params patch.
type configGenerators struct {
	configs []types.Configuration
	loader  *pipeline.Loader
}

func (source *configGenerators) getGenerator(task *Task) (pipeline.Generator, types.Configuration, error) {
	cfg, ok := types.FindConfiguration(source.configs, task.shardTask.ConfigName)
	if !ok {
		return nil, cfg, fmt.Errorf("configuration %q not found", task.shardTask.ConfigName)
	}
	cfg, err := cfg.ApplyPatch(task.shardTask.ParamsPatch)
	if err != nil {
		return nil, cfg, err
	}
	gen, err := source.loader.Load(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return gen, cfg, nil
}
