package fallback

const crisisLine = "**Crisis: 988 | Text HOME to 741741 | Emergency: 911**"

type section struct {
	title string
	items []string
}

type topic struct {
	name     string
	keywords []string
	heading  string
	sections []section
	footer   string
}

// topics are checked in order; the first topic with a matching keyword answers
var topics = []topic{
	{
		name:     "anxiety",
		keywords: []string{"anxious", "anxiety", "worried", "stress", "stressed"},
		heading:  "😰 **ANXIETY SUPPORT**",
		sections: []section{
			{"Calm down right now", []string{
				"Box breathing: in for 4, hold 4, out for 4, hold 4",
				"Grounding: name 5 things you see, 4 you can touch, 3 you hear",
				"Relax one muscle group at a time, from your feet upward",
			}},
			{"Daily prevention", []string{
				"A short morning meditation",
				"30 minutes of movement",
				"Regular sleep and meals, less caffeine",
				"Screen breaks and clear boundaries",
			}},
			{"Reach out for help if", []string{
				"Worry lasts more than two weeks",
				"It gets in the way of work, school or relationships",
				"You notice thoughts of harming yourself",
			}},
		},
		footer: crisisLine,
	},
	{
		name:     "depression",
		keywords: []string{"sad", "depressed", "down", "hopeless", "lonely"},
		heading:  "💙 **WHEN YOU FEEL LOW**",
		sections: []section{
			{"Small steps for today", []string{
				"Send a message to someone you trust",
				"Take a ten minute walk outside",
				"Do one small kind thing for yourself",
			}},
			{"Daily habits", []string{
				"Write down three things you are thankful for",
				"Keep a steady sleep window of 7 to 9 hours",
				"Eat regular meals and track your mood",
			}},
			{"Reach out for help if", []string{
				"The low mood lasts more than two weeks",
				"You find it hard to take care of yourself",
				"You have thoughts of self-harm",
			}},
		},
		footer: crisisLine,
	},
	{
		name:     "sleep",
		keywords: []string{"sleep", "insomnia", "tired", "exhausted"},
		heading:  "🌙 **BETTER SLEEP**",
		sections: []section{
			{"Tonight", []string{
				"Slow breathing: in for 4, hold 7, out for 8",
				"Write your worries on paper before bed",
				"Dim the lights and put screens away an hour early",
			}},
			{"Every day", []string{
				"Same bedtime and wake time, weekends included",
				"No caffeine after early afternoon",
				"Keep the bedroom cool, dark and quiet",
			}},
			{"Talk to a professional if", []string{
				"Trouble sleeping lasts more than three weeks",
				"You are very sleepy during the day",
				"Someone notices snoring or gasping at night",
			}},
		},
	},
	{
		name:     "pain",
		keywords: []string{"pain", "hurt", "ache", "sore"},
		heading:  "🩹 **DEALING WITH PAIN**",
		sections: []section{
			{"Immediate relief", []string{
				"Rest the painful area",
				"Ice for fresh injuries, heat for stiff muscles",
				"Gentle stretching if it does not make things worse",
			}},
			{"Managing it", []string{
				"Over-the-counter relief, following the label",
				"Deep breathing and relaxation to ease tension",
			}},
			{"See a doctor if", []string{
				"The pain is severe or getting worse",
				"It comes with fever, swelling or redness",
				"It does not improve with rest",
			}},
		},
		footer: "This is general guidance. A healthcare provider can advise on your situation.",
	},
	{
		name:     "exercise",
		keywords: []string{"exercise", "workout", "fitness", "physical"},
		heading:  "🏃 **MOVING MORE**",
		sections: []section{
			{"Getting started", []string{
				"Start slow and build up gradually",
				"Aim for about 150 minutes of moderate activity a week",
				"Mix cardio with strength work",
			}},
			{"Staying safe", []string{
				"Warm up and cool down",
				"Drink water and rest between hard days",
				"Check with a doctor before starting if you have a condition",
			}},
		},
	},
	{
		name:     "nutrition",
		keywords: []string{"diet", "nutrition", "food", "eating", "healthy"},
		heading:  "🥗 **EATING WELL**",
		sections: []section{
			{"Basics", []string{
				"Fill half your plate with vegetables and fruit",
				"Choose whole grains and lean proteins",
				"Drink plenty of water",
			}},
			{"Habits", []string{
				"Eat regular meals instead of skipping",
				"Cut back on processed food and added sugar",
				"Notice how different foods affect your mood",
			}},
		},
	},
	{
		name:     "headache",
		keywords: []string{"headache", "migraine", "head pain"},
		heading:  "🤕 **HEADACHE RELIEF**",
		sections: []section{
			{"Right now", []string{
				"Rest in a quiet, dark room",
				"Drink a glass of water",
				"A cool cloth on the forehead or neck",
			}},
			{"Prevention", []string{
				"Regular sleep and meals",
				"Regular screen breaks",
				"Keep a diary of possible triggers",
			}},
			{"Get urgent care if", []string{
				"It is the worst headache of your life",
				"It comes with confusion, fever or a stiff neck",
				"It follows a head injury",
			}},
		},
	},
	{
		name:     "mental_health",
		keywords: []string{"mental health", "prevention", "wellness", "coping", "therapy", "counseling"},
		heading:  "🧠 **CARING FOR YOUR MIND**",
		sections: []section{
			{"Everyday coping", []string{
				"Name what you feel without judging it",
				"Keep a short routine with movement and rest",
				"Stay connected with people who support you",
			}},
			{"Prevention", []string{
				"Check in with yourself every evening",
				"Set limits on news and social media",
				"Learn one calming technique and practice it daily",
			}},
			{"Professional support", []string{
				"Therapy and counseling work best early",
				"A doctor can point you to local services",
			}},
		},
		footer: crisisLine,
	},
	{
		name:     "general_health",
		keywords: []string{"health", "wellness", "well-being", "healthy"},
		heading:  "🌿 **STAYING HEALTHY**",
		sections: []section{
			{"Foundations", []string{
				"Sleep 7 to 9 hours",
				"Move every day",
				"Eat balanced meals and drink water",
			}},
			{"Check-ups", []string{
				"See a doctor for routine screenings",
				"Keep track of any new or lasting symptoms",
			}},
		},
	},
	{
		name:     "trauma",
		keywords: []string{"ptsd", "trauma", "flashback", "nightmare", "triggered", "abuse", "assault"},
		heading:  "🤝 **AFTER TRAUMA**",
		sections: []section{
			{"When memories hit", []string{
				"Remind yourself where you are and that you are safe now",
				"Grounding: hold something cold or describe the room out loud",
				"Slow your breathing, making the exhale longer than the inhale",
			}},
			{"Day to day", []string{
				"Keep a predictable routine",
				"Share what you are ready to share with someone you trust",
			}},
			{"Specialized help", []string{
				"Trauma-focused therapists can help with flashbacks and nightmares",
				"If you are in danger, contact emergency services",
			}},
		},
		footer: crisisLine,
	},
}

var defaultTopic = topic{
	name:    "default",
	heading: "👋 **HOW I CAN HELP**",
	sections: []section{
		{"Ask me about", []string{
			"Anxiety and stress",
			"Low mood and loneliness",
			"Sleep problems",
			"Pain and headaches",
			"Exercise and nutrition",
			"Coping after difficult experiences",
		}},
	},
	footer: "If you are in crisis, call 988 or text HOME to 741741.",
}
