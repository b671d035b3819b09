package language

// Function-word lists used by the cheap counting path. Deliberately small:
// they only need to separate English from Malay in short chat messages;
// anything harder falls through to the statistical identifier.
var englishFunctionWords = []string{
	"the", "is", "are", "was", "what", "where", "when", "how", "why",
	"can", "could", "would", "you", "your", "please", "thanks", "thank",
	"have", "need", "want", "there", "this", "that", "and", "for", "with",
}

var malayFunctionWords = []string{
	"saya", "anda", "awak", "kami", "boleh", "tidak", "tak", "ada",
	"mana", "bila", "berapa", "macam", "nak", "hendak", "ini", "itu",
	"dan", "untuk", "dengan", "sudah", "belum", "ya", "tolong",
	"terima", "kasih", "bilik", "sila",
}

const (
	// DefaultMinLength is the shortest text worth classifying; anything
	// shorter returns unknown.
	DefaultMinLength = 3

	// cacheSize bounds the detection result cache.
	cacheSize = 1024
)
