package sentiment

import (
	"github.com/satriahrh/audexa/domain/entities"
	"github.com/satriahrh/audexa/domain/repositories"
)

func example(text string, label entities.SentimentLabel) repositories.LabeledExample {
	return repositories.LabeledExample{Text: text, Label: label}
}

// Examples is the few-shot bank sent with every backend request
var Examples = []repositories.LabeledExample{
	example("I'm feeling really down today", entities.SentimentNegative),
	example("I'm struggling to find motivation", entities.SentimentNegative),
	example("I've been feeling anxious lately", entities.SentimentNegative),
	example("I'm finding it hard to sleep at night", entities.SentimentNegative),
	example("I'm feeling overwhelmed with stress", entities.SentimentNegative),
	example("I'm feeling depressed", entities.SentimentNegative),
	example("I'm having panic attacks", entities.SentimentNegative),
	example("I'm feeling suicidal", entities.SentimentNegative),
	example("I'm in pain", entities.SentimentNegative),
	example("I'm feeling hopeless", entities.SentimentNegative),
	example("I'm having trouble eating", entities.SentimentNegative),
	example("I'm feeling lonely", entities.SentimentNegative),
	example("I'm scared about my health", entities.SentimentNegative),
	example("I'm worried about my future", entities.SentimentNegative),
	example("I'm feeling angry all the time", entities.SentimentNegative),

	example("I practiced mindfulness and felt better", entities.SentimentPositive),
	example("I talked to a friend and it helped", entities.SentimentPositive),
	example("I enjoyed spending time in nature", entities.SentimentPositive),
	example("I accomplished a small goal today", entities.SentimentPositive),
	example("I'm grateful for the support I have", entities.SentimentPositive),
	example("I'm feeling hopeful", entities.SentimentPositive),
	example("I'm making progress", entities.SentimentPositive),
	example("I'm feeling stronger", entities.SentimentPositive),
	example("I'm taking care of myself", entities.SentimentPositive),
	example("I'm feeling calm", entities.SentimentPositive),
	example("I'm feeling confident", entities.SentimentPositive),
	example("I'm feeling happy", entities.SentimentPositive),
	example("I'm feeling peaceful", entities.SentimentPositive),
	example("I'm feeling motivated", entities.SentimentPositive),
	example("I'm feeling proud of myself", entities.SentimentPositive),

	example("I'm taking things one step at a time", entities.SentimentNeutral),
	example("I'm working on managing my emotions", entities.SentimentNeutral),
	example("I'm exploring different coping strategies", entities.SentimentNeutral),
	example("I'm learning to prioritize self-care", entities.SentimentNeutral),
	example("I'm seeking professional help to improve", entities.SentimentNeutral),
	example("What are some relaxation techniques?", entities.SentimentNeutral),
	example("How can I improve my sleep?", entities.SentimentNeutral),
	example("What should I do about my symptoms?", entities.SentimentNeutral),
	example("Can you explain this condition?", entities.SentimentNeutral),
	example("What are the treatment options?", entities.SentimentNeutral),
	example("How long will recovery take?", entities.SentimentNeutral),
	example("What are the side effects?", entities.SentimentNeutral),
	example("Should I see a doctor?", entities.SentimentNeutral),
	example("What tests do I need?", entities.SentimentNeutral),
	example("How can I prevent this?", entities.SentimentNeutral),
}
