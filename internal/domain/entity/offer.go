package entity

import "fmt"

// Offer — один оффер маркетплейса ровно в том виде, в котором его отдал
// API: полусхемный JSON-объект. Раскладка не гарантирована (плоский корень
// либо JSON:API с вложенным attributes), поэтому доступ к полям идёт через
// таблицы кандидатов в matcher, а не через фиксированную структуру.
type Offer struct {
	Raw map[string]any
}

// ID ищет идентификатор на корне, затем в attributes. Пустая строка —
// идентификатора нет.
func (o Offer) ID() string {
	if id, ok := stringValue(o.Raw["id"]); ok {
		return id
	}

	if id, ok := stringValue(o.Attributes()["id"]); ok {
		return id
	}

	return ""
}

// Attributes возвращает вложенный attributes-объект, если он есть.
func (o Offer) Attributes() map[string]any {
	attrs, _ := o.Raw["attributes"].(map[string]any)
	return attrs
}

// TopLevelKeys — ключи верхнего уровня, для одноразового debug-лога сырого
// ответа в начале запуска.
func (o Offer) TopLevelKeys() []string {
	keys := make([]string, 0, len(o.Raw))
	for k := range o.Raw {
		keys = append(keys, k)
	}
	return keys
}

func stringValue(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		if value == "" {
			return "", false
		}
		return value, true
	case float64:
		return fmt.Sprintf("%.0f", value), true
	case int64:
		return fmt.Sprintf("%d", value), true
	}
	return "", false
}
