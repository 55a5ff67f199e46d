package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sohbetapp/sohbet-server/internal/auth"
	"github.com/sohbetapp/sohbet-server/internal/chat"
	"github.com/sohbetapp/sohbet-server/internal/store"
)

// User-facing messages shown by the mobile client, keyed by service error.
// The client displays them verbatim in a blocking alert.
var userMessages = map[error]string{
	auth.ErrUserNotFound:     "Bu e-posta adresi ile kayıtlı kullanıcı bulunamadı",
	auth.ErrWrongPassword:    "Hatalı şifre",
	auth.ErrInvalidEmail:     "Geçersiz e-posta adresi",
	auth.ErrWeakPassword:     "Şifre en az 6 karakter olmalıdır",
	auth.ErrEmailInUse:       "Bu e-posta adresi zaten kullanımda",
	auth.ErrTooManyAttempts:  "Çok fazla başarısız giriş denemesi. Lütfen daha sonra tekrar deneyin",
	auth.ErrPasswordMismatch: "Şifreler eşleşmiyor",
	chat.ErrEmptyMessage:     "Mesaj boş olamaz",
}

const genericMessage = "Bir hata oluştu. Lütfen tekrar deneyin"

func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrSameUser):
		return fiber.StatusBadRequest
	case errors.Is(err, auth.ErrWrongPassword):
		return fiber.StatusUnauthorized
	case errors.Is(err, chat.ErrNotParticipant):
		return fiber.StatusForbidden
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, auth.ErrEmailInUse):
		return fiber.StatusConflict
	case errors.Is(err, auth.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg, ok := userMessages[err]
	if !ok {
		for e, m := range userMessages {
			if errors.Is(err, e) {
				msg, ok = m, true
				break
			}
		}
	}
	if !ok {
		msg = genericMessage
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
