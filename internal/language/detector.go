// Package language guesses the language of an utterance from keyword and script signals.
package language

import (
	"strings"
	"unicode"
)

// Baseline is returned when no signal matches
const Baseline = "en"

type keywordSet struct {
	code     string
	keywords []string
}

// keywords are tried in this order; the first language with a hit wins.
// Short entries such as "no" or "es" also hit inside longer words.
var keywords = []keywordSet{
	{"hi", []string{"है", "हूं", "हैं", "मैं", "आप", "कैसे", "क्या", "में", "को", "से", "पर", "के", "का", "की", "हो", "था", "थी", "थे"}},
	{"bn", []string{"আমি", "আপনি", "কিভাবে", "কি", "হয়", "এবং", "বা", "কিন্তু", "যদি", "তবে", "হয়তো", "নাকি", "কেন", "কখন", "কোথায়"}},
	{"ta", []string{"நான்", "நீங்கள்", "எப்படி", "என்ன", "ஆக", "மற்றும்", "அல்லது", "ஆனால்", "என்றால்", "பின்னர்", "ஒருவேளை", "ஏன்", "எப்போது", "எங்கே"}},
	{"te", []string{"నేను", "మీరు", "ఎలా", "ఏమి", "అవుతుంది", "మరియు", "లేదా", "కానీ", "అయితే", "అప్పుడు", "బహుశా", "ఎందుకు", "ఎప్పుడు", "ఎక్కడ"}},
	{"gu", []string{"હું", "તમે", "કેવી રીતે", "શું", "છે", "અને", "અથવા", "પરંતુ", "જો", "તો", "કદાચ", "શા માટે", "ક્યારે", "ક્યાં"}},
	{"pa", []string{"ਮੈਂ", "ਤੁਸੀਂ", "ਕਿਵੇਂ", "ਕੀ", "ਹੈ", "ਅਤੇ", "ਜਾਂ", "ਪਰ", "ਜੇ", "ਤਾਂ", "ਸ਼ਾਇਦ", "ਕਿਉਂ", "ਕਦੋਂ", "ਕਿੱਥੇ"}},
	{"kn", []string{"ನಾನು", "ನೀವು", "ಹೇಗೆ", "ಏನು", "ಆಗುತ್ತದೆ", "ಮತ್ತು", "ಅಥವಾ", "ಆದರೆ", "ಒಂದು ವೇಳೆ", "ನಂತರ", "ಬಹುಶಃ", "ಏಕೆ", "ಯಾವಾಗ", "ಎಲ್ಲಿ"}},
	{"ml", []string{"ഞാൻ", "നിങ്ങൾ", "എങ്ങനെ", "എന്ത്", "ആകുന്നു", "ഒപ്പം", "അല്ലെങ്കിൽ", "പക്ഷേ", "എങ്കിൽ", "പിന്നെ", "ഒരുപക്ഷേ", "എന്തുകൊണ്ട്", "എപ്പോൾ", "എവിടെ"}},
	{"ur", []string{"میں", "آپ", "کیسے", "کیا", "ہے", "اور", "یا", "لیکن", "اگر", "تو", "شاید", "کیوں", "کب", "کہاں"}},
	{"es", []string{"hola", "gracias", "por favor", "sí", "no", "buenos", "días", "noche", "cómo", "estás", "soy", "tengo", "quiero", "necesito", "ayuda"}},
	{"fr", []string{"bonjour", "merci", "s'il vous plaît", "oui", "non", "comment", "allez-vous", "je suis", "j'ai", "je veux", "j'ai besoin", "aide"}},
	{"de", []string{"hallo", "danke", "bitte", "ja", "nein", "wie", "geht", "es", "ich bin", "ich habe", "ich will", "ich brauche", "hilfe"}},
	{"it", []string{"ciao", "grazie", "per favore", "sì", "no", "come", "stai", "sono", "ho", "voglio", "ho bisogno", "aiuto"}},
	{"pt", []string{"olá", "obrigado", "por favor", "sim", "não", "como", "está", "sou", "tenho", "quero", "preciso", "ajuda"}},
	{"ru", []string{"привет", "спасибо", "пожалуйста", "да", "нет", "как", "дела", "я", "у меня", "хочу", "нужно", "помощь"}},
	{"ja", []string{"こんにちは", "ありがとう", "お願いします", "はい", "いいえ", "どう", "です", "私は", "持っています", "欲しい", "必要", "助け"}},
	{"ko", []string{"안녕하세요", "감사합니다", "부탁드립니다", "네", "아니요", "어떻게", "입니다", "저는", "가지고", "원해요", "필요해요", "도움"}},
	{"zh", []string{"你好", "谢谢", "请", "是", "不", "怎么", "我", "有", "想要", "需要", "帮助"}},
	{"ar", []string{"مرحبا", "شكرا", "من فضلك", "نعم", "لا", "كيف", "هو", "أنا", "لدي", "أريد", "أحتاج", "مساعدة"}},
}

type scriptRange struct {
	code   string
	ranges []*unicode.RangeTable
}

func span(lo, hi rune) *unicode.RangeTable {
	return &unicode.RangeTable{R16: []unicode.Range16{{Lo: uint16(lo), Hi: uint16(hi), Stride: 1}}}
}

// scripts are tested in this order; mixed-script text resolves to the first hit
var scripts = []scriptRange{
	{"hi", []*unicode.RangeTable{span(0x0900, 0x097F)}},
	{"bn", []*unicode.RangeTable{span(0x0980, 0x09FF)}},
	{"ta", []*unicode.RangeTable{span(0x0B80, 0x0BFF)}},
	{"te", []*unicode.RangeTable{span(0x0C00, 0x0C7F)}},
	{"gu", []*unicode.RangeTable{span(0x0A80, 0x0AFF)}},
	{"pa", []*unicode.RangeTable{span(0x0A00, 0x0A7F)}},
	{"kn", []*unicode.RangeTable{span(0x0C80, 0x0CFF)}},
	{"ml", []*unicode.RangeTable{span(0x0D00, 0x0D7F)}},
	{"ur", []*unicode.RangeTable{span(0x0600, 0x06FF)}},
	{"zh", []*unicode.RangeTable{span(0x4E00, 0x9FFF)}},
	{"ja", []*unicode.RangeTable{span(0x3040, 0x309F), span(0x30A0, 0x30FF)}},
	{"ko", []*unicode.RangeTable{span(0xAC00, 0xD7AF)}},
	{"ru", []*unicode.RangeTable{span(0x0400, 0x04FF)}},
}

// Detector guesses a language code from text
type Detector struct {
	baseline string
}

// NewDetector returns a detector that falls back to the given code, or "en" when empty
func NewDetector(baseline string) *Detector {
	if baseline == "" {
		baseline = Baseline
	}
	return &Detector{baseline: baseline}
}

// Detect never fails and always returns the same code for the same input.
// Keywords are plain substrings of the lowercased text, so they win over scripts.
func (d *Detector) Detect(text string) string {
	lower := strings.ToLower(text)
	for _, set := range keywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.code
			}
		}
	}

	for _, s := range scripts {
		for _, r := range text {
			if unicode.IsOneOf(s.ranges, r) {
				return s.code
			}
		}
	}

	return d.baseline
}
