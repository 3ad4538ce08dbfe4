package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
// Сейчас сущность одна — бот, но серверов может быть несколько
type Server struct {
	BotServer
}

func NewServer(
	botServer BotServer,
) Server {
	return Server{
		BotServer: botServer,
	}
}
