package glyphatlas

import "testing"

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfig_ValidateRejectsNegativeMaxLayers(t *testing.T) {
	c := Config{MaxLayers: -1}
	err := c.Validate()
	if err == nil {
		t.Fatal("expected error for negative MaxLayers")
	}
	var cerr *ConfigError
	if ce, ok := err.(*ConfigError); !ok {
		t.Fatalf("error type = %T, want *ConfigError", err)
	} else {
		cerr = ce
	}
	if cerr.Field != "MaxLayers" {
		t.Fatalf("Field = %q, want MaxLayers", cerr.Field)
	}
}

func TestConfig_ZeroValueIsValid(t *testing.T) {
	if err := (Config{}).Validate(); err != nil {
		t.Fatalf("zero-value Config.Validate() = %v, want nil", err)
	}
}
