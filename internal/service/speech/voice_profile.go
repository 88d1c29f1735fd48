package speech

import "strings"

// defaultVoice carries interviews whose persona has no mapped voice.
const defaultVoice = "en_female_skye_emo_v2_mars_bigtts"

var personaVoices = map[string]string{
	"friendly": "en_female_candice_emo_v2_mars_bigtts",
	"balanced": "en_female_skye_emo_v2_mars_bigtts",
	"strict":   "en_male_glen_emo_v2_mars_bigtts",
}

// ResolveVoice maps a persona tag or explicit voice identifier to a TTS
// voice. Identifiers that already look like provider voices pass through.
func ResolveVoice(tagOrVoice string) string {
	normalized := strings.ToLower(strings.TrimSpace(tagOrVoice))
	if normalized == "" {
		return defaultVoice
	}

	if voice, ok := personaVoices[normalized]; ok {
		return voice
	}

	if strings.Contains(normalized, "_bigtts") || strings.HasPrefix(normalized, "en_") || strings.HasPrefix(normalized, "zh_") {
		return tagOrVoice
	}

	return defaultVoice
}
