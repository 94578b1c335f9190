package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	Ticks uint64 `yaml:"ticks"`
	Seed  int64  `yaml:"seed"`

	InteractRadius int `yaml:"interact_radius"`

	DataDir   string `yaml:"data_dir"`
	TraceAddr string `yaml:"trace_addr"`

	LogRotateEveryTicks uint64 `yaml:"log_rotate_every_ticks"`
	DBFlushEvery        int    `yaml:"db_flush_every"`
}

func Default() Tuning {
	return Tuning{
		Ticks:               200,
		Seed:                1,
		InteractRadius:      3,
		DataDir:             "data",
		LogRotateEveryTicks: 1000,
		DBFlushEvery:        64,
	}
}

func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if t.Ticks == 0 {
		return t, fmt.Errorf("tuning.yaml: ticks must be positive")
	}
	return t, nil
}
