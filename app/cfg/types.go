package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Pipeline configuration
	ScoringMode       string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAIModel       string
	RescoreInterval   int
	RescoreBatchSize  int
	FetchRate         float64
	ExtractContent    bool
	IncludeCategories []string
	ExcludeCategories []string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
