package api

import (
	"strings"

	"github.com/ecis/inspection-gin/internal/lifecycle"
	"github.com/gin-gonic/gin"
)

// I18nManager 国际化管理器
type I18nManager struct {
	messages map[string]map[string]string // lang -> key -> message
}

var defaultI18nManager *I18nManager

func init() {
	defaultI18nManager = NewI18nManager()
	defaultI18nManager.LoadMessages("en", map[string]string{
		"error.not_found":            "Resource not found",
		"error.unauthorized":         "Unauthorized",
		"error.bad_request":          "Bad request",
		"error.internal_error":       "Internal server error",
		"error.too_many_requests":    "Too many requests, please try again later",
		"error.invalid_transition":   "This action is not allowed in the current state",
		"error.missing_result":       "Overall result must be set before completing the inspection",
		"error.missing_signature":    "Inspector signature is required before completing the inspection",
		"error.invalid_date":         "Inspection date cannot be in the future",
		"error.invalid_contact_info": "Invalid contact information",
		"error.validation":           "Validation failed",
		"quote.submitted":            "Quote request submitted successfully. We will contact you within 24 hours.",
	})
	defaultI18nManager.LoadMessages("fr", map[string]string{
		"error.not_found":            "Ressource introuvable",
		"error.unauthorized":         "Non autorisé",
		"error.bad_request":          "Requête invalide",
		"error.internal_error":       "Erreur interne du serveur",
		"error.too_many_requests":    "Trop de requêtes, veuillez réessayer plus tard",
		"error.invalid_transition":   "Cette action n'est pas autorisée dans l'état actuel",
		"error.missing_result":       "Le résultat global doit être renseigné avant de terminer l'inspection",
		"error.missing_signature":    "La signature de l'inspecteur est requise avant de terminer l'inspection",
		"error.invalid_date":         "La date d'inspection ne peut pas être dans le futur",
		"error.invalid_contact_info": "Coordonnées invalides",
		"error.validation":           "Échec de la validation",
		"quote.submitted":            "Demande de devis envoyée avec succès. Nous vous contacterons sous 24 heures.",
	})
}

// NewI18nManager 创建国际化管理器
func NewI18nManager() *I18nManager {
	return &I18nManager{
		messages: make(map[string]map[string]string),
	}
}

// LoadMessages 加载语言消息
func (m *I18nManager) LoadMessages(lang string, messages map[string]string) {
	m.messages[lang] = messages
}

// Translate 翻译消息,找不到时回退到英文,再找不到返回 key
func (m *I18nManager) Translate(lang, key string) string {
	if message, ok := m.messages[lang][key]; ok {
		return message
	}
	if message, ok := m.messages["en"][key]; ok {
		return message
	}
	return key
}

// Has 是否存在该语言的消息
func (m *I18nManager) Has(lang, key string) bool {
	_, ok := m.messages[lang][key]
	return ok
}

// I18nMiddleware 国际化中间件,lang 查询参数优先于 Accept-Language
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := "en"
		if queryLang := c.Query("lang"); queryLang != "" {
			lang = normalizeLanguage(queryLang)
		} else if headerLang := c.GetHeader("Accept-Language"); headerLang != "" {
			lang = parseAcceptLanguage(headerLang)
		}

		c.Set("language", lang)
		c.Next()
	}
}

// GetLanguage 从上下文获取语言
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString("language"); lang != "" {
		return lang
	}
	return "en"
}

// T 翻译消息（使用默认管理器）
func T(c *gin.Context, key string) string {
	return defaultI18nManager.Translate(GetLanguage(c), key)
}

var errorKeys = map[lifecycle.ErrorCode]string{
	lifecycle.CodeNotFound:           "error.not_found",
	lifecycle.CodeInvalidTransition:  "error.invalid_transition",
	lifecycle.CodeMissingResult:      "error.missing_result",
	lifecycle.CodeMissingSignature:   "error.missing_signature",
	lifecycle.CodeInvalidDate:        "error.invalid_date",
	lifecycle.CodeInvalidContactInfo: "error.invalid_contact_info",
	lifecycle.CodeValidation:         "error.validation",
}

// translateError 英文保留具体的错误消息,其他语言使用错误码对应的译文
func translateError(c *gin.Context, code lifecycle.ErrorCode, err error) string {
	lang := GetLanguage(c)
	key, ok := errorKeys[code]
	if lang == "en" || !ok || !defaultI18nManager.Has(lang, key) {
		return err.Error()
	}
	return defaultI18nManager.Translate(lang, key)
}

// normalizeLanguage 规范化语言代码
func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch {
	case strings.HasPrefix(lang, "fr"):
		return "fr"
	case strings.HasPrefix(lang, "en"):
		return "en"
	}
	return lang
}

// parseAcceptLanguage 解析 Accept-Language 头,取第一个语言
func parseAcceptLanguage(header string) string {
	lang := strings.Split(header, ",")[0]
	if idx := strings.Index(lang, ";"); idx != -1 {
		lang = lang[:idx]
	}
	return normalizeLanguage(lang)
}
