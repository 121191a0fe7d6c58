package multiplier

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/bizval/internal/model"
)

type multiplierFile struct {
	Industries []model.IndustryProfile `yaml:"industries"`
}

// LoadFile reads a YAML multiplier table of the form
//
//	industries:
//	  - industry: Retail
//	    min_revenue_multiplier: 0.3
//	    max_revenue_multiplier: 0.8
//	    ebitda_multiplier: 2.5
//	    avg_profit_margin: 12
//
// Missing numbers load as zero and are repaired on resolution.
func LoadFile(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "multiplier: read %s", path)
	}

	var f multiplierFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "multiplier: parse %s", path)
	}
	if len(f.Industries) == 0 {
		return nil, eris.Errorf("multiplier: %s has no industries", path)
	}
	for i, p := range f.Industries {
		if p.Industry == "" {
			return nil, eris.Errorf("multiplier: %s entry %d has no industry", path, i)
		}
	}
	return NewStaticSource(f.Industries...), nil
}
