// FILE: pkg/convo/intent/catalog.go
// PURPOSE: Fixed keyword catalogs backing deterministic classification

package intent

// ambiguityCatalog maps known-broad phrases to the sub-topic options the
// clarification gate will enumerate. A query matching this catalog must
// never also take the vague-expansion path.
var ambiguityCatalog = map[string][]string{
	"engineering": {
		"backend systems and APIs",
		"AI and retrieval pipeline work",
		"infrastructure and deployment",
	},
	"experience": {
		"professional roles and companies",
		"technical project work",
		"leadership and mentoring",
	},
	"projects": {
		"production backend services",
		"AI/chatbot side projects",
		"open source contributions",
	},
	"background": {
		"education and early career",
		"professional work history",
		"technical specializations",
	},
	"skills": {
		"programming languages and frameworks",
		"infrastructure and tooling",
		"soft skills and collaboration",
	},
}

// vagueExpansions substitutes a fuller canned question for terse queries
// (two tokens or fewer) to improve retrieval recall. Keys here must stay
// disjoint from the ambiguity catalog.
var vagueExpansions = map[string]string{
	"golang":     "What experience does he have with Go and how has he applied it in production?",
	"go":         "What experience does he have with Go and how has he applied it in production?",
	"python":     "What experience does he have with Python and what has he built with it?",
	"databases":  "What databases has he worked with and how were they used?",
	"postgres":   "What experience does he have with PostgreSQL in production systems?",
	"kubernetes": "What experience does he have with Kubernetes and container orchestration?",
	"docker":     "What experience does he have with Docker and containerized deployment?",
	"aws":        "What cloud platforms has he used and what did he deploy on them?",
	"cloud":      "What cloud platforms has he used and what did he deploy on them?",
	"ai":         "What AI and machine learning systems has he built or worked on?",
	"rag":        "How does the retrieval-augmented generation pipeline he built work?",
	"mma":        "What is his involvement with MMA and how does he train?",
	"hobbies":    "What are his hobbies and interests outside of software?",
	"education":  "What is his educational background and formal training?",
	"testing":    "How does he approach testing and code quality?",
	"resume":     "What are the highlights of his professional resume?",
}

// Keyword sets for query type classification. Checked in priority order.

var technicalKeywords = []string{
	"code", "architecture", "pipeline", "api", "backend", "database",
	"deploy", "implement", "algorithm", "golang", "go ", "python",
	"docker", "kubernetes", "retrieval", "embedding", "vector",
	"technical", "stack", "framework", "library", "design pattern",
	"concurrency", "test", "debug",
}

var careerKeywords = []string{
	"career", "job", "work history", "worked at", "company", "companies",
	"role", "position", "promotion", "professional", "employment",
	"resume", "cv", "hire", "hiring", "salary", "interview",
}

var dataKeywords = []string{
	"stats", "statistics", "github stats", "metrics", "numbers",
	"how many", "live data", "activity", "contributions", "commits",
}

var mmaKeywords = []string{
	"mma", "martial arts", "fight", "fighting", "bjj", "jiu-jitsu",
	"grappling", "sparring", "gym", "training camp",
}

var funKeywords = []string{
	"fun fact", "hobby", "hobbies", "interests", "favorite", "music",
	"games", "outside of work", "free time", "personality",
}

var greetingPhrases = []string{
	"hi", "hello", "hey", "yo", "hiya", "good morning", "good afternoon",
	"good evening", "howdy", "what's up", "whats up",
}

var hiringSignalKeywords = []string{
	"hiring", "we are looking", "we're looking", "open position", "open role",
	"our team", "join us", "interview", "candidate", "opportunity",
	"recruiting", "headcount", "vacancy", "looking to fill",
}

var resumeRequestKeywords = []string{
	"send me your resume", "send your resume", "can i get your resume",
	"share your resume", "send me the resume", "get your resume",
	"your cv", "send resume", "resume please", "email me your resume",
	"can i see your resume", "send me your cv",
}

var codeDisplayKeywords = []string{
	"show me the code", "show the code", "code example", "code snippet",
	"show me some code", "see the code", "show code",
}

var importExplanationKeywords = []string{
	"what imports", "which libraries", "what libraries", "dependencies used",
	"what packages", "which dependencies", "explain the imports",
}

var dataDisplayKeywords = []string{
	"live stats", "current stats", "github stats", "live data",
	"right now", "latest activity", "current activity",
}

var teachingKeywords = []string{
	"how does", "how do", "explain", "walk me through", "why does",
	"why did", "what happens when", "teach me", "help me understand",
}

var longerResponseKeywords = []string{
	"in detail", "in depth", "deep dive", "thorough", "comprehensive",
	"everything about", "full picture", "all the details",
}
