package config

type WorkerKeyStruct struct {
	PersistQuestionsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistQuestionsQueue: "persist_generated_questions_queue",
}
