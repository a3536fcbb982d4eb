package i18n

// messages 按语言分组的文案表
var messages = map[string]map[string]string{
	LocaleRU: {
		"error.bad_request":                "Некорректный запрос",
		"error.unauthorized":               "Требуется авторизация",
		"error.forbidden":                  "Доступ запрещён",
		"error.not_found":                  "Ресурс не найден",
		"error.internal":                   "Внутренняя ошибка сервера",
		"error.too_many_requests":          "Слишком много попыток, повторите позже",
		"error.captcha_invalid":            "Неверный код с картинки",
		"error.login_failed":               "Неверный логин или пароль",
		"error.consultation_not_found":     "Консультация не найдена",
		"error.consultation_state_invalid": "Операция недоступна в текущем статусе консультации",
		"error.payment_not_confirmed":      "Оплата ещё не подтверждена",
		"error.slot_unavailable":           "Выбранное время уже занято",
		"error.amount_out_of_range":        "Сумма вне допустимого диапазона",
		"error.payment_not_found":          "Платёж не найден",
		"error.payment_state_invalid":      "Операция недоступна в текущем статусе платежа",
		"error.refund_amount_invalid":      "Недопустимая сумма возврата",
		"error.refund_reason_invalid":      "Не указана причина возврата",
		"error.gateway_failure":            "Платёжный шлюз отклонил операцию",
		"error.gateway_timeout":            "Платёжный шлюз не ответил вовремя",
		"error.user_blocked":               "Пользователь заблокирован",
		"error.question_not_found":         "Вопрос не найден",
		"error.question_state_invalid":     "Вопрос уже обработан",
		"error.faq_not_found":              "Запись FAQ не найдена",
		"error.faq_invalid":                "Некорректная запись FAQ",
		"error.password_old_invalid":       "Неверный текущий пароль",
		"error.password_weak":              "Новый пароль слишком простой",
		"error.slot_outside_work_hours":    "Время вне рабочего графика",

		"bot.consultation_paid":      "Оплата получена! Ваша консультация №%d подтверждена. Мы свяжемся с вами для согласования времени.",
		"bot.consultation_approved":  "Ваша заявка на консультацию №%d принята юристом.",
		"bot.consultation_scheduled": "Консультация №%d назначена на %s.",
		"bot.consultation_completed": "Консультация №%d завершена. Спасибо, что обратились к нам!",
		"bot.consultation_cancelled": "Консультация №%d отменена. Причина: %s",
		"bot.payment_refunded":       "По консультации №%d оформлен возврат %s %s.",
		"bot.question_answered":      "Юрист ответил на ваш вопрос:\n\n%s",
		"bot.reminder_24h":           "Напоминание: ваша консультация №%d состоится завтра в %s.",
		"bot.reminder_2h":            "Напоминание: ваша консультация №%d начнётся через 2 часа, в %s.",
		"bot.reminder_30m":           "Ваша консультация №%d начнётся через 30 минут, в %s.",
	},
	LocaleUZ: {
		"error.bad_request":                "Noto'g'ri so'rov",
		"error.unauthorized":               "Avtorizatsiya talab qilinadi",
		"error.forbidden":                  "Ruxsat yo'q",
		"error.not_found":                  "Resurs topilmadi",
		"error.internal":                   "Serverda ichki xatolik",
		"error.too_many_requests":          "Urinishlar juda ko'p, keyinroq qayta urinib ko'ring",
		"error.captcha_invalid":            "Rasmdagi kod noto'g'ri",
		"error.login_failed":               "Login yoki parol noto'g'ri",
		"error.consultation_not_found":     "Konsultatsiya topilmadi",
		"error.consultation_state_invalid": "Joriy holatda bu amal bajarilmaydi",
		"error.payment_not_confirmed":      "To'lov hali tasdiqlanmagan",
		"error.slot_unavailable":           "Tanlangan vaqt band",
		"error.amount_out_of_range":        "Summa ruxsat etilgan oraliqdan tashqarida",
		"error.payment_not_found":          "To'lov topilmadi",
		"error.payment_state_invalid":      "Joriy to'lov holatida bu amal bajarilmaydi",
		"error.refund_amount_invalid":      "Qaytarish summasi noto'g'ri",
		"error.refund_reason_invalid":      "Qaytarish sababi ko'rsatilmagan",
		"error.gateway_failure":            "To'lov shlyuzi amalni rad etdi",
		"error.gateway_timeout":            "To'lov shlyuzi o'z vaqtida javob bermadi",
		"error.user_blocked":               "Foydalanuvchi bloklangan",
		"error.question_not_found":         "Savol topilmadi",
		"error.question_state_invalid":     "Savol allaqachon ko'rib chiqilgan",
		"error.faq_not_found":              "FAQ yozuvi topilmadi",
		"error.faq_invalid":                "FAQ yozuvi noto'g'ri to'ldirilgan",
		"error.password_old_invalid":       "Joriy parol noto'g'ri",
		"error.password_weak":              "Yangi parol juda oddiy",
		"error.slot_outside_work_hours":    "Vaqt ish jadvalidan tashqarida",

		"bot.consultation_paid":      "To'lov qabul qilindi! №%d konsultatsiyangiz tasdiqlandi. Vaqtni kelishish uchun siz bilan bog'lanamiz.",
		"bot.consultation_approved":  "№%d konsultatsiya arizangiz yurist tomonidan qabul qilindi.",
		"bot.consultation_scheduled": "№%d konsultatsiya %s ga belgilandi.",
		"bot.consultation_completed": "№%d konsultatsiya yakunlandi. Murojaatingiz uchun rahmat!",
		"bot.consultation_cancelled": "№%d konsultatsiya bekor qilindi. Sabab: %s",
		"bot.payment_refunded":       "№%d konsultatsiya bo'yicha %s %s qaytarildi.",
		"bot.question_answered":      "Yurist savolingizga javob berdi:\n\n%s",
		"bot.reminder_24h":           "Eslatma: №%d konsultatsiyangiz ertaga soat %s da bo'lib o'tadi.",
		"bot.reminder_2h":            "Eslatma: №%d konsultatsiyangiz 2 soatdan so'ng, soat %s da boshlanadi.",
		"bot.reminder_30m":           "№%d konsultatsiyangiz 30 daqiqadan so'ng, soat %s da boshlanadi.",
	},
	LocaleEN: {
		"error.bad_request":                "Invalid request",
		"error.unauthorized":               "Authorization required",
		"error.forbidden":                  "Access denied",
		"error.not_found":                  "Resource not found",
		"error.internal":                   "Internal server error",
		"error.too_many_requests":          "Too many attempts, try again later",
		"error.captcha_invalid":            "Invalid captcha code",
		"error.login_failed":               "Invalid username or password",
		"error.consultation_not_found":     "Consultation not found",
		"error.consultation_state_invalid": "Operation is not allowed in the current consultation status",
		"error.payment_not_confirmed":      "Payment has not been confirmed yet",
		"error.slot_unavailable":           "The selected time slot is already taken",
		"error.amount_out_of_range":        "Amount is out of the allowed range",
		"error.payment_not_found":          "Payment not found",
		"error.payment_state_invalid":      "Operation is not allowed in the current payment status",
		"error.refund_amount_invalid":      "Invalid refund amount",
		"error.refund_reason_invalid":      "Refund reason is required",
		"error.gateway_failure":            "Payment gateway rejected the operation",
		"error.gateway_timeout":            "Payment gateway did not respond in time",
		"error.user_blocked":               "User is blocked",
		"error.question_not_found":         "Question not found",
		"error.question_state_invalid":     "Question has already been handled",
		"error.faq_not_found":              "FAQ entry not found",
		"error.faq_invalid":                "FAQ entry is invalid",
		"error.password_old_invalid":       "Current password is incorrect",
		"error.password_weak":              "New password is too weak",
		"error.slot_outside_work_hours":    "Time is outside working hours",

		"bot.consultation_paid":      "Payment received! Your consultation #%d is confirmed. We will contact you to agree on the time.",
		"bot.consultation_approved":  "Your consultation request #%d has been accepted by the lawyer.",
		"bot.consultation_scheduled": "Consultation #%d is scheduled for %s.",
		"bot.consultation_completed": "Consultation #%d is completed. Thank you for choosing us!",
		"bot.consultation_cancelled": "Consultation #%d has been cancelled. Reason: %s",
		"bot.payment_refunded":       "Consultation #%d: a refund of %s %s has been issued.",
		"bot.question_answered":      "The lawyer has answered your question:\n\n%s",
		"bot.reminder_24h":           "Reminder: your consultation #%d takes place tomorrow at %s.",
		"bot.reminder_2h":            "Reminder: your consultation #%d starts in 2 hours, at %s.",
		"bot.reminder_30m":           "Your consultation #%d starts in 30 minutes, at %s.",
	},
}
