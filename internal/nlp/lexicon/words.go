package lexicon

import "strings"

// wordSet builds a membership set from a space-separated word list.
func wordSet(words string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		out[w] = struct{}{}
	}
	return out
}

// stopWords are removed before hashing word tokens. The list mixes English and
// Romanian function words plus marketing filler that carries no class signal,
// and must stay in sync with the trainer.
var stopWords = wordSet(
	"the a an and or of de la si cu pt pentru pe in din este sunt un o ale " +
		"pro plus ultra max mini new nou original best cheap ieftin premium high-end wireless",
)

// brands is the fixed brand lexicon shared by the hashed encoder (brand
// feature tokens) and the rule router (REQUEST_BRAND detection).
var brands = wordSet(
	"apple samsung xiaomi huawei oneplus nokia motorola sony asus lenovo dell hp acer msi " +
		"gigabyte nvidia amd intel canon nikon dji logitech philips lg bosch razer tplink " +
		"seagate wd western digital sandisk kingston corsair steelseries hama microsoft google meta " +
		"beats jbl bose sennheiser",
)

// IsStopWord reports whether token is on the stop-word list.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// IsBrand reports whether token is a known brand token.
func IsBrand(token string) bool {
	_, ok := brands[token]
	return ok
}

// Brands returns the brand tokens in an unspecified order. The returned slice
// is a copy; the underlying lexicon is immutable.
func Brands() []string {
	out := make([]string, 0, len(brands))
	for b := range brands {
		out = append(out, b)
	}
	return out
}
