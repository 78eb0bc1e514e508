// Package lang is the catalog of languages the translator can work
// with. Codes follow the Google translate conventions, which the
// recognition and synthesis services accept as well.
package lang

import "strings"

type Language struct {
	Name string
	Code string
}

// Catalog lists the supported languages in menu order.
var Catalog = []Language{
	{"English", "en"},
	{"Hindi", "hi"},
	{"Spanish", "es"},
	{"French", "fr"},
	{"German", "de"},
	{"Italian", "it"},
	{"Japanese", "ja"},
	{"Chinese", "zh-CN"},
	{"Russian", "ru"},
	{"Arabic", "ar"},
}

// ByCode looks a language up by its code, case-insensitively.
func ByCode(code string) (Language, bool) {
	for _, l := range Catalog {
		if strings.EqualFold(l.Code, code) {
			return l, true
		}
	}
	return Language{}, false
}

// ByName looks a language up by its display name, case-insensitively.
func ByName(name string) (Language, bool) {
	for _, l := range Catalog {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Language{}, false
}

func Codes() []string {
	codes := make([]string, len(Catalog))
	for i, l := range Catalog {
		codes[i] = l.Code
	}
	return codes
}
