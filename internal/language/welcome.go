package language

var welcomes = map[string]string{
	"en": "Hey! I'm AUDEXA, your friendly assistant for mental health and wellbeing. What's on your mind today?",
	"hi": "नमस्ते! मैं AUDEXA हूं, आपकी मानसिक स्वास्थ्य सहायक। आप कैसे हैं?",
	"bn": "নমস্কার! আমি AUDEXA, আপনার মানসিক স্বাস্থ্য সহায়ক। আপনি কেমন আছেন?",
	"ta": "வணக்கம்! நான் AUDEXA, உங்கள் மன ஆரோக்கிய உதவியாளர். நீங்கள் எப்படி இருக்கிறீர்கள்?",
	"te": "నమస్కారం! నేను AUDEXA, మీ మానసిక ఆరోగ్య సహాయకుడిని. మీరు ఎలా ఉన్నారు?",
	"gu": "નમસ્તે! હું AUDEXA છું, તમારી માનસિક આરોગ્ય સહાયક. તમે કેમ છો?",
	"pa": "ਸਤ ਸ੍ਰੀ ਅਕਾਲ! ਮੈਂ AUDEXA ਹਾਂ, ਤੁਹਾਡੀ ਮਾਨਸਿਕ ਸਿਹਤ ਸਹਾਇਕ। ਤੁਸੀਂ ਕਿਵੇਂ ਹੋ?",
	"kn": "ನಮಸ್ಕಾರ! ನಾನು AUDEXA, ನಿಮ್ಮ ಮಾನಸಿಕ ಆರೋಗ್ಯ ಸಹಾಯಕ. ನೀವು ಹೇಗಿದ್ದೀರಿ?",
	"ml": "നമസ്കാരം! ഞാൻ AUDEXA ആണ്, നിങ്ങളുടെ മാനസികാരോഗ്യ സഹായി. സുഖമാണോ?",
	"ur": "السلام علیکم! میں AUDEXA ہوں، آپ کی ذہنی صحت کی معاون۔ آپ کیسے ہیں؟",
	"es": "¡Hola! Soy AUDEXA, tu asistente de salud mental. ¿Cómo estás?",
	"fr": "Bonjour ! Je suis AUDEXA, votre assistant de santé mentale. Comment allez-vous ?",
	"de": "Hallo! Ich bin AUDEXA, dein Assistent für psychische Gesundheit. Wie geht es dir?",
	"it": "Ciao! Sono AUDEXA, il tuo assistente per la salute mentale. Come stai?",
	"pt": "Olá! Eu sou AUDEXA, seu assistente de saúde mental. Como você está?",
	"ru": "Привет! Я AUDEXA, ваш помощник по психическому здоровью. Как вы?",
	"ja": "こんにちは！AUDEXAです。メンタルヘルスのアシスタントです。お元気ですか？",
	"ko": "안녕하세요! 저는 정신건강 도우미 AUDEXA입니다. 어떻게 지내세요?",
	"zh": "你好！我是AUDEXA，你的心理健康助手。你最近怎么样？",
	"ar": "مرحبا! أنا AUDEXA، مساعدك للصحة النفسية. كيف حالك؟",
}

// Welcome returns the greeting for a language, falling back to English
func Welcome(code string) string {
	if msg, ok := welcomes[code]; ok {
		return msg
	}
	return welcomes[Baseline]
}
