package menu

import (
	"regexp"
	"strings"
)

var tokenSplitter = regexp.MustCompile(`[^a-z0-9]+`)

// Generic words carry no identity and would cause "Oat Milk" to collide with
// "Whole Milk" on the shared suffix.
var genericTokens = map[string]struct{}{
	"size":   {},
	"milk":   {},
	"option": {},
	"oz":     {},
	"ml":     {},
}

func isNumeric(token string) bool {
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(token) > 0
}

// CustomizationTokens generates the fuzzy match keys for an option name or a
// configured override type. Menu data and remote config are authored
// independently, so "Oat Milk", "Oat-Milk", "OAT" and a config entry of
// "oatmilk" all need to land on the same keys.
//
// The value is lowercased and split on non-alphanumeric runs; pure numbers,
// unit words and the generic words size/milk/option are dropped. Keys are
// then the concatenation of what remains, each remaining token on its own,
// and for tokens ending in milk/size/option, the bare prefix ("oatmilk" ->
// "oat"). Insertion order is preserved so lookups prefer the most specific
// key first.
func CustomizationTokens(value string) []string {
	if value == "" {
		return nil
	}

	raw := tokenSplitter.Split(strings.ToLower(value), -1)
	filtered := make([]string, 0, len(raw))
	for _, token := range raw {
		if token == "" || isNumeric(token) {
			continue
		}
		if _, generic := genericTokens[token]; generic {
			continue
		}
		filtered = append(filtered, token)
	}

	seen := make(map[string]struct{})
	keys := make([]string, 0, len(filtered)*2+1)
	add := func(key string) {
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	add(strings.Join(filtered, ""))
	for _, token := range filtered {
		add(token)
		for _, suffix := range []string{"milk", "size", "option"} {
			if strings.HasSuffix(token, suffix) && len(token) > len(suffix) {
				add(strings.TrimSuffix(token, suffix))
			}
		}
	}

	return keys
}
