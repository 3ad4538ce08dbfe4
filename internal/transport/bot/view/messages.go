package view

const StartMessage = `🎯 <b>Offer Sniper</b>

Команды:
/status — состояние бота и фильтры
/run — запустить охоту
/stop — остановить
/minprice &lt;сумма&gt; — минимальная цена
/maxprice &lt;сумма|off&gt; — максимальная цена
/vehicles &lt;van,sedan|off&gt; — классы машин
/horizon &lt;часы|off&gt; — минимум часов до начала заказа`

const StatusTemplate = `📊 <b>Состояние</b>

🤖 <b>Статус:</b> %s
💰 <b>Цена:</b> от %s%s
🚐 <b>Машины:</b> %s
🕒 <b>Горизонт:</b> %s
👁 <b>Last seen:</b> %s
%s`

const (
	MissingArgument = "Нужен аргумент, пример: /minprice 45.5"
	InvalidFormat   = "Не понял значение, пример: /minprice 45.5"
	FilterSaved     = "✅ Фильтры обновлены"
	BotStarted      = "🟢 Бот запущен"
	BotStopped      = "🔴 Бот остановлен"
	CommandFailed   = "❌ Не получилось: %v"
)
