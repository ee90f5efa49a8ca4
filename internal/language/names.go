package language

var displayNames = map[string]string{
	"en": "English",
	"hi": "Hindi (हिन्दी)",
	"bn": "Bengali (বাংলা)",
	"ta": "Tamil (தமிழ்)",
	"te": "Telugu (తెలుగు)",
	"mr": "Marathi (मराठी)",
	"gu": "Gujarati (ગુજરાતી)",
	"pa": "Punjabi (ਪੰਜਾਬੀ)",
	"kn": "Kannada (ಕನ್ನಡ)",
	"ml": "Malayalam (മലയാളം)",
	"ur": "Urdu (اردو)",
	"es": "Spanish (Español)",
	"fr": "French (Français)",
	"de": "German (Deutsch)",
	"it": "Italian (Italiano)",
	"pt": "Portuguese (Português)",
	"ru": "Russian (Русский)",
	"ja": "Japanese (日本語)",
	"ko": "Korean (한국어)",
	"zh": "Chinese (中文)",
	"ar": "Arabic (العربية)",
}

// DisplayName returns a human label for a language code, or the code itself
func DisplayName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	return code
}

// IsSupported reports whether the code has a known display name
func IsSupported(code string) bool {
	_, ok := displayNames[code]
	return ok
}

// IsAuto reports whether the caller asked for detection instead of a fixed language
func IsAuto(code string) bool {
	return code == "" || code == "auto"
}

// Resolve maps unknown or automatic codes to the baseline language
func Resolve(code string) string {
	if IsAuto(code) || !IsSupported(code) {
		return Baseline
	}
	return code
}
