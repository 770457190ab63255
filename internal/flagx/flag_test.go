package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	allowed := []string{"-c", "--config"}

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"separate value", []string{"-c", "conf.yaml", "-a", ":8080"}, []string{"-c", "conf.yaml"}},
		{"equals form", []string{"--config=alt.yaml", "-a", ":8080"}, []string{"--config=alt.yaml"}},
		{"order preserved", []string{"--config=a.yaml", "-c", "b.yaml", "-x", "1"}, []string{"--config=a.yaml", "-c", "b.yaml"}},
		{"unknown ignored", []string{"-x", "1", "--y=2", "positional"}, []string{}},
		{"trailing flag without value", []string{"-c"}, []string{"-c"}},
		{"next arg is a flag", []string{"-c", "-d"}, []string{"-c"}},
		{"value with dashes after equals", []string{"--config=--odd.yaml"}, []string{"--config=--odd.yaml"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "server.yaml", ConfigFileFlag([]string{"-a", ":9000", "-c", "server.yaml"}))
	assert.Equal(t, "other.yaml", ConfigFileFlag([]string{"-config=other.yaml"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-a", ":9000"}))
}
