package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSlug(t *testing.T) {
	cases := map[string]string{
		"Phone Case":          "phone-case",
		"phone case":          "phone-case",
		"  Phone   Case  ":    "phone-case",
		"Phone_Case!!":        "phone-case",
		"Électronique":        "electronique",
		"Смартфон":            "smartfon",
		"Laptops - Computers": "laptops-computers",
		"***":                 "",
	}

	for name, want := range cases {
		assert.Equal(t, want, DeriveSlug(name), name)
	}
}

func TestDeriveSlugIsDeterministic(t *testing.T) {
	assert.Equal(t, DeriveSlug("Phone Case"), DeriveSlug("phone case"))
	assert.Equal(t, DeriveSlug("Phone Case"), DeriveSlug("Phone Case"))
}
