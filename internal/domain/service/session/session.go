package session

import "offer_sniper/internal/domain/entity"

// IsUsable — оптимистичная проверка сохранённой сессии: непустой токен и
// присутствующий (пусть и пустой) список cookies. Срока годности у сессии
// нет, и мы его не выдумываем: протухание обнаружится первым же 401 от API,
// после чего сессию стирают из хранилища и следующий запуск логинится заново.
func IsUsable(saved entity.Session) bool {
	return saved.AccessToken != "" && saved.Cookies != nil
}
