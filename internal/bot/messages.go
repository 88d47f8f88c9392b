package bot

import (
	"github.com/chirchiq/estate-bot/internal/flow"
	"github.com/chirchiq/estate-bot/internal/model"
	"github.com/chirchiq/estate-bot/internal/storage"
)

// Messages owned by the transport rather than the dialogue flow.
const (
	msgUnexpectedErr         flow.MessageKey = "unexpected_error"
	msgHelp                  flow.MessageKey = "help"
	msgMyAdsEmpty            flow.MessageKey = "myads_empty"
	msgMyAdsHeader           flow.MessageKey = "myads_header"
	msgMyAdsItem             flow.MessageKey = "myads_item"
	msgAdDaysLeft            flow.MessageKey = "ad_days_left"
	msgAdExpired             flow.MessageKey = "ad_expired"
	msgProfile               flow.MessageKey = "profile"
	msgSubFreeRole           flow.MessageKey = "sub_free_role"
	msgSubActive             flow.MessageKey = "sub_active"
	msgSubInactive           flow.MessageKey = "sub_inactive"
	msgLastSubscription      flow.MessageKey = "last_subscription"
	msgPreviewCard           flow.MessageKey = "preview_card"
	msgAnalysisLine          flow.MessageKey = "analysis_line"
	msgPlanPrice             flow.MessageKey = "plan_price"
	msgAdminNewListing       flow.MessageKey = "admin_new_listing"
	msgAdminNewPayment       flow.MessageKey = "admin_new_payment"
	msgAdminDuplicateReceipt flow.MessageKey = "admin_duplicate_receipt"
	msgExpiryReminder        flow.MessageKey = "expiry_reminder"

	msgBtnAdDelete   flow.MessageKey = "btn_ad_delete"
	msgBtnAdWithdraw flow.MessageKey = "btn_ad_withdraw"
	msgBtnAdRenew    flow.MessageKey = "btn_ad_renew"
	msgAdDeleted     flow.MessageKey = "ad_deleted"
	msgAdWithdrawn   flow.MessageKey = "ad_withdrawn"
	msgAdRenewed     flow.MessageKey = "ad_renewed"
	msgAdNotFound    flow.MessageKey = "ad_not_found"
	msgAdStillActive flow.MessageKey = "ad_still_active"
	msgAdRenewLimit  flow.MessageKey = "ad_renew_limit"

	msgBtnPaymentHistory flow.MessageKey = "btn_payment_history"
	msgPaymentsEmpty     flow.MessageKey = "payments_empty"
	msgPaymentsHeader    flow.MessageKey = "payments_header"
	msgPaymentsItem      flow.MessageKey = "payments_item"

	msgRolesHeader flow.MessageKey = "roles_header"
	msgRolePaid    flow.MessageKey = "role_paid"
	msgRoleFree    flow.MessageKey = "role_free"
	msgRolesFooter flow.MessageKey = "roles_footer"
)

func statusKey(s model.AdStatus) flow.MessageKey {
	return flow.MessageKey("status." + string(s))
}

func subscriptionKindKey(kind storage.SubscriptionKind) flow.MessageKey {
	return flow.MessageKey("sub." + string(kind))
}

func paymentStatusKey(s model.PaymentStatus) flow.MessageKey {
	return flow.MessageKey("payment." + string(s))
}

func commandKey(name string) flow.MessageKey {
	return flow.MessageKey("cmd." + name)
}

type catalog map[flow.MessageKey]string

// =============================================================================
// Shared across languages
// =============================================================================

var commonMessages = catalog{
	flow.LanguageKey(model.LangRussian): "🇷🇺 Русский",
	flow.LanguageKey(model.LangUzbek):   "🇺🇿 O'zbekcha",
	flow.LanguageKey(model.LangEnglish): "🇬🇧 English",

	flow.MsgChooseLanguage: "Выберите язык / Tilni tanlang / Choose language:",

	msgPlanPrice:    "%s: %s",
	msgAnalysisLine: "⚠️ %s\n💡 %s",
	msgPreviewCard:  "*%s*\n%s\n\n%s\n\n💰 %s\n📍 %s\n📷 %d",
	msgPaymentsItem: "%s\n%s · %s · %s\n%s · `%s`",
}

// =============================================================================
// Russian
// =============================================================================

var ruMessages = catalog{
	flow.MsgWelcome:             "Добро пожаловать в бот объявлений о недвижимости! Давайте настроим ваш профиль.",
	flow.MsgWelcomeBack:         "С возвращением, %s!\nРоль: *%s*\nДней подписки осталось: %d\n\nНовое объявление: /new\nВсе команды: /help",
	flow.MsgStartFirst:          "Сначала отправьте /start.",
	flow.MsgIdleHint:            "Подать объявление: /new\nПодписка: /subscription\nВсе команды: /help",
	flow.MsgSessionExpired:      "Сессия устарела. Начните заново: /new",
	flow.MsgCancelled:           "Отменено.",
	flow.MsgNothingToCancel:     "Нечего отменять.",
	flow.MsgUseButtons:          "Пожалуйста, воспользуйтесь кнопками выше.",
	flow.MsgLanguageSet:         "Язык: %s",
	flow.MsgChooseRole:          "Кто вы? Выберите роль:",
	flow.MsgChooseUpgradeRole:   "Выберите платную роль для подписки:",
	flow.MsgRoleUnchanged:       "У вас уже роль *%s*.",
	flow.MsgRoleChanged:         "Роль изменена: *%s*.",
	flow.MsgRoleTrialGranted:    "Роль изменена: *%s*. Бесплатный пробный период: %d дн.",
	flow.MsgRoleNeedsPlan:       "Для роли *%s* нужна подписка.",
	flow.MsgConfirmRoleChange:   "У вас активная подписка на роль *%s*. Перейти на роль *%s*? Срок подписки сохранится.",
	flow.MsgRoleChangeCancelled: "Роль не изменена: *%s*.",

	flow.MsgSubscriptionRequired: "Подписка для роли *%s* не активна. Продлите её: /subscription",
	flow.MsgListingLimitReached:  "Достигнут лимит активных объявлений: %d. Дождитесь окончания срока одного из них, удалите его в /myads или оформите подписку: /subscription",
	flow.MsgChooseType:           "Выберите тип недвижимости:",
	flow.MsgEnterTitle:           "Введите заголовок объявления (до %d символов):",
	flow.MsgTitleTooLong:         "Заголовок слишком длинный. Максимум %d символов.",
	flow.MsgEnterDescription:     "Опишите объект: комнаты, площадь, этаж, район и цену.",
	flow.MsgAnalysisReport:       "Описание можно улучшить:",
	flow.MsgPriceDetected:        "В описании найдена цена: *%s*. Использовать её?",
	flow.MsgEnterPrice:           "Введите цену числом:",
	flow.MsgInvalidPrice:         "Не удалось распознать цену. Введите положительное число, например 85000.",
	flow.MsgEnterLocation:        "Укажите адрес или район:",
	flow.MsgSendPhotos:           "Отправьте фотографии (до %d). Когда закончите, нажмите «Готово».",
	flow.MsgPhotoAdded:           "Фото добавлено: %d из %d.",
	flow.MsgSendPhotoOrDone:      "Отправьте фото или нажмите «Готово».",
	flow.MsgNoPhotosWarning:      "Объявления без фотографий получают меньше откликов.",
	flow.MsgPreview:              "Проверьте объявление:",
	flow.MsgChooseEditField:      "Что изменить?",
	flow.MsgListingSubmitted:     "Объявление отправлено на модерацию. Спасибо!",
	flow.MsgListingCancelled:     "Объявление отменено.",

	flow.MsgSubscriptionStatus: "Ваша роль: *%s*\nДней подписки осталось: %d",
	flow.MsgSelectPlan:         "Тарифы для роли *%s*. Базовая цена: %s в месяц.",
	flow.MsgPercentagePlanInfo: "Тариф «процент от сделки» для роли *%s* подключается через администратора. Напишите нам, чтобы обсудить условия.",
	flow.MsgPaymentInstructions: `
		*Оплата подписки*

		Роль: *%s*
		Тариф: %s
		Сумма: *%s*
		Срок: %d дн.

		Банк: %s
		Карта: ` + "`%s`" + `
		Получатель: %s
		Код платежа: ` + "`%s`" + `

		Укажите код платежа в комментарии к переводу, затем загрузите чек.`,
	flow.MsgPaymentHelp:      "Переведите сумму на указанную карту и укажите код платежа в комментарии. Затем нажмите «Загрузить чек» и отправьте фото чека.",
	flow.MsgSendReceipt:      "Отправьте фото чека.",
	flow.MsgReceiptExpected:  "Нужна фотография чека.",
	flow.MsgReceiptReceived:  "Чек получен. Код платежа: `%s`. Подписка будет активирована после проверки.",
	flow.MsgPaymentCancelled: "Платёж отменён.",

	flow.BtnDone:             "✅ Готово",
	flow.BtnAnalysisEdit:     "✏️ Исправить",
	flow.BtnAnalysisContinue: "➡️ Продолжить",
	flow.BtnPriceUse:         "✅ Использовать",
	flow.BtnPriceCustom:      "✏️ Другая цена",
	flow.BtnSubmit:           "📤 Отправить",
	flow.BtnEdit:             "✏️ Изменить",
	flow.BtnCancel:           "❌ Отмена",
	flow.BtnBack:             "⬅️ Назад",
	flow.BtnConfirm:          "✅ Подтвердить",
	flow.BtnUploadReceipt:    "🧾 Загрузить чек",
	flow.BtnHelp:             "❓ Помощь",

	flow.RoleKey(model.RoleBuyer):     "Покупатель",
	flow.RoleKey(model.RoleSeller):    "Продавец",
	flow.RoleKey(model.RoleTenant):    "Арендатор",
	flow.RoleKey(model.RoleRealtor):   "Риелтор",
	flow.RoleKey(model.RoleAgency):    "Агентство",
	flow.RoleKey(model.RoleDeveloper): "Застройщик",

	flow.TypeKey(model.PropertyRental):         "🏠 Аренда",
	flow.TypeKey(model.PropertyDailyRental):    "🛏 Посуточно",
	flow.TypeKey(model.PropertyGarages):        "🚗 Гаражи",
	flow.TypeKey(model.PropertyApartments):     "🏢 Квартиры",
	flow.TypeKey(model.PropertyHouses):         "🏡 Дома",
	flow.TypeKey(model.PropertyCommercial):     "🏬 Коммерческая",
	flow.TypeKey(model.PropertyDeveloperHomes): "🏗 Новостройки",
	flow.TypeKey(model.PropertyLand):           "🌳 Участки",

	flow.PlanKey(model.Plan1Month):     "1 месяц",
	flow.PlanKey(model.Plan3Months):    "3 месяца",
	flow.PlanKey(model.Plan6Months):    "6 месяцев",
	flow.PlanKey(model.Plan1Year):      "1 год",
	flow.PlanKey(model.PlanPercentage): "Процент от сделки",

	flow.FieldKey(flow.FieldType):        "Тип",
	flow.FieldKey(flow.FieldTitle):       "Заголовок",
	flow.FieldKey(flow.FieldDescription): "Описание",
	flow.FieldKey(flow.FieldPrice):       "Цена",
	flow.FieldKey(flow.FieldLocation):    "Адрес",
	flow.FieldKey(flow.FieldPhotos):      "Фото",

	"issue.too_short":            "Описание слишком короткое.",
	"issue.too_long":             "Описание слишком длинное.",
	"issue.missing_price":        "В описании нет цены.",
	"issue.price_not_recognized": "Цена в описании не распознана.",
	"issue.few_details":          "Мало подробностей об объекте.",

	"suggest.add_detail":       "Добавьте подробностей, минимум 50 символов.",
	"suggest.shorten":          "Сократите текст до 2000 символов.",
	"suggest.state_price":      "Укажите цену.",
	"suggest.explicit_price":   "Напишите цену цифрами, например «Цена: 85 000».",
	"suggest.mention_features": "Укажите комнаты, площадь, этаж или район.",

	msgUnexpectedErr: "Произошла ошибка. Попробуйте ещё раз позже.",
	msgHelp: `
		*Команды*
		/new: подать объявление
		/myads: мои объявления
		/profile: профиль
		/payments: история платежей
		/subscription: подписка
		/role: сменить роль
		/roles: роли и цены
		/language: сменить язык
		/cancel: отменить текущее действие`,
	msgMyAdsEmpty:       "У вас пока нет объявлений. Создайте первое: /new",
	msgMyAdsHeader:      "*Ваши объявления*",
	msgMyAdsItem:        "%d. *%s*\n%s · %s\n%s",
	msgAdDaysLeft:       "%s, осталось %d дн.",
	msgAdExpired:        "⌛ Срок истёк",
	msgSubFreeRole:      "не требуется",
	msgSubActive:        "до %s (%d дн.)",
	msgSubInactive:      "не активна",
	msgLastSubscription: "Последний период: %s, %s - %s",
	msgProfile: `
		*Профиль*
		Имя: %s
		Роль: %s
		Язык: %s
		Подписка: %s
		Активных объявлений: %d из %d`,
	msgAdminNewListing: "🆕 *Новое объявление #%d*\nОт: %s\n\n%s",
	msgAdminNewPayment: `
		💳 *Платёж #%d*
		От: %s
		Роль: %s
		Тариф: %s
		Сумма: %s
		Срок: %d дн.
		Код: ` + "`%s`",
	msgAdminDuplicateReceipt: "⚠️ Этот чек уже прикреплён к платежу #%d (пользователь %d).",
	msgExpiryReminder:        "⏰ Подписка на роль *%s* заканчивается %s (осталось %d дн.). Продлить: /subscription",

	statusKey(model.AdStatusPending):  "⏳ На модерации",
	statusKey(model.AdStatusApproved): "✅ Опубликовано",
	statusKey(model.AdStatusRejected): "🚫 Отклонено",

	subscriptionKindKey(storage.SubscriptionTrial): "пробный",
	subscriptionKindKey(storage.SubscriptionPaid):  "оплаченный",

	commandKey("start"):        "Начать",
	commandKey("new"):          "Подать объявление",
	commandKey("myads"):        "Мои объявления",
	commandKey("profile"):      "Профиль",
	commandKey("subscription"): "Подписка",
	commandKey("role"):         "Сменить роль",
	commandKey("language"):     "Сменить язык",
	commandKey("cancel"):       "Отменить",
	commandKey("help"):         "Помощь",
	commandKey("payments"):     "История платежей",
	commandKey("roles"):        "Роли и цены",

	msgBtnAdDelete:   "🗑 Удалить №%d",
	msgBtnAdWithdraw: "↩️ Отозвать №%d",
	msgBtnAdRenew:    "🔄 Продлить №%d",
	msgAdDeleted:     "🗑 Объявление *%s* удалено.",
	msgAdWithdrawn:   "↩️ Объявление *%s* снято с модерации и удалено.",
	msgAdRenewed:     "🔄 Объявление *%s* продлено на %d дн.",
	msgAdNotFound:    "Объявление не найдено.",
	msgAdStillActive: "Объявление *%s* ещё активно, продлевать его пока не нужно.",
	msgAdRenewLimit:  "Нельзя продлить: уже активно %d объявлений. Удалите одно из них в /myads или оформите подписку: /subscription",

	msgBtnPaymentHistory: "💳 История платежей",
	msgPaymentsEmpty:     "У вас пока нет платежей.",
	msgPaymentsHeader:    "*История платежей*",

	msgRolesHeader: "*Роли*",
	msgRolePaid:    "*%s*: %s в месяц, пробный период %d дн.",
	msgRoleFree:    "*%s*: бесплатно, до %d активных объявлений на %d дн.",
	msgRolesFooter: "Сменить роль: /role",

	paymentStatusKey(model.PaymentPending):         "⏳ Ожидает оплаты",
	paymentStatusKey(model.PaymentReceiptUploaded): "🧾 Чек на проверке",
	paymentStatusKey(model.PaymentCancelled):       "✖️ Отменён",
}

// =============================================================================
// Uzbek
// =============================================================================

var uzMessages = catalog{
	flow.MsgWelcome:             "Ko'chmas mulk e'lonlari botiga xush kelibsiz! Keling, profilingizni sozlaymiz.",
	flow.MsgWelcomeBack:         "Qaytganingiz bilan, %s!\nRol: *%s*\nObuna kunlari qoldi: %d\n\nYangi e'lon: /new\nBarcha buyruqlar: /help",
	flow.MsgStartFirst:          "Avval /start yuboring.",
	flow.MsgIdleHint:            "E'lon berish: /new\nObuna: /subscription\nBarcha buyruqlar: /help",
	flow.MsgSessionExpired:      "Sessiya eskirdi. Qaytadan boshlang: /new",
	flow.MsgCancelled:           "Bekor qilindi.",
	flow.MsgNothingToCancel:     "Bekor qilinadigan narsa yo'q.",
	flow.MsgUseButtons:          "Iltimos, yuqoridagi tugmalardan foydalaning.",
	flow.MsgLanguageSet:         "Til: %s",
	flow.MsgChooseRole:          "Siz kimsiz? Rolni tanlang:",
	flow.MsgChooseUpgradeRole:   "Obuna uchun pullik rolni tanlang:",
	flow.MsgRoleUnchanged:       "Sizning rolingiz allaqachon *%s*.",
	flow.MsgRoleChanged:         "Rol o'zgartirildi: *%s*.",
	flow.MsgRoleTrialGranted:    "Rol o'zgartirildi: *%s*. Bepul sinov muddati: %d kun.",
	flow.MsgRoleNeedsPlan:       "*%s* roli uchun obuna kerak.",
	flow.MsgConfirmRoleChange:   "Sizda *%s* roli uchun faol obuna bor. *%s* roliga o'tasizmi? Obuna muddati saqlanadi.",
	flow.MsgRoleChangeCancelled: "Rol o'zgarmadi: *%s*.",

	flow.MsgSubscriptionRequired: "*%s* roli uchun obuna faol emas. Uzaytiring: /subscription",
	flow.MsgListingLimitReached:  "Faol e'lonlar chegarasiga yetdingiz: %d. Ulardan birining muddati tugashini kuting, uni /myads orqali o'chiring yoki obuna bo'ling: /subscription",
	flow.MsgChooseType:           "Ko'chmas mulk turini tanlang:",
	flow.MsgEnterTitle:           "E'lon sarlavhasini kiriting (%d belgigacha):",
	flow.MsgTitleTooLong:         "Sarlavha juda uzun. Ko'pi bilan %d belgi.",
	flow.MsgEnterDescription:     "Obyektni tasvirlang: xonalar, maydon, qavat, tuman va narx.",
	flow.MsgAnalysisReport:       "Tavsifni yaxshilash mumkin:",
	flow.MsgPriceDetected:        "Tavsifda narx topildi: *%s*. Shundan foydalanilsinmi?",
	flow.MsgEnterPrice:           "Narxni raqam bilan kiriting:",
	flow.MsgInvalidPrice:         "Narxni aniqlab bo'lmadi. Musbat son kiriting, masalan 85000.",
	flow.MsgEnterLocation:        "Manzil yoki tumanni kiriting:",
	flow.MsgSendPhotos:           "Rasmlarni yuboring (%d tagacha). Tugatgach, «Tayyor» tugmasini bosing.",
	flow.MsgPhotoAdded:           "Rasm qo'shildi: %d / %d.",
	flow.MsgSendPhotoOrDone:      "Rasm yuboring yoki «Tayyor» tugmasini bosing.",
	flow.MsgNoPhotosWarning:      "Rasmsiz e'lonlar kamroq javob oladi.",
	flow.MsgPreview:              "E'lonni tekshiring:",
	flow.MsgChooseEditField:      "Nimani o'zgartirasiz?",
	flow.MsgListingSubmitted:     "E'lon moderatsiyaga yuborildi. Rahmat!",
	flow.MsgListingCancelled:     "E'lon bekor qilindi.",

	flow.MsgSubscriptionStatus: "Sizning rolingiz: *%s*\nObuna kunlari qoldi: %d",
	flow.MsgSelectPlan:         "*%s* roli uchun tariflar. Asosiy narx: oyiga %s.",
	flow.MsgPercentagePlanInfo: "*%s* roli uchun «bitimdan foiz» tarifi administrator orqali ulanadi. Shartlarni muhokama qilish uchun bizga yozing.",
	flow.MsgPaymentInstructions: `
		*Obuna to'lovi*

		Rol: *%s*
		Tarif: %s
		Summa: *%s*
		Muddat: %d kun

		Bank: %s
		Karta: ` + "`%s`" + `
		Qabul qiluvchi: %s
		To'lov kodi: ` + "`%s`" + `

		To'lov izohida to'lov kodini ko'rsating, so'ng chekni yuklang.`,
	flow.MsgPaymentHelp:      "Summani ko'rsatilgan kartaga o'tkazing va izohda to'lov kodini yozing. So'ng «Chekni yuklash» tugmasini bosing va chek rasmini yuboring.",
	flow.MsgSendReceipt:      "Chek rasmini yuboring.",
	flow.MsgReceiptExpected:  "Chek rasmi kerak.",
	flow.MsgReceiptReceived:  "Chek qabul qilindi. To'lov kodi: `%s`. Obuna tekshiruvdan so'ng faollashtiriladi.",
	flow.MsgPaymentCancelled: "To'lov bekor qilindi.",

	flow.BtnDone:             "✅ Tayyor",
	flow.BtnAnalysisEdit:     "✏️ Tuzatish",
	flow.BtnAnalysisContinue: "➡️ Davom etish",
	flow.BtnPriceUse:         "✅ Foydalanish",
	flow.BtnPriceCustom:      "✏️ Boshqa narx",
	flow.BtnSubmit:           "📤 Yuborish",
	flow.BtnEdit:             "✏️ O'zgartirish",
	flow.BtnCancel:           "❌ Bekor qilish",
	flow.BtnBack:             "⬅️ Orqaga",
	flow.BtnConfirm:          "✅ Tasdiqlash",
	flow.BtnUploadReceipt:    "🧾 Chekni yuklash",
	flow.BtnHelp:             "❓ Yordam",

	flow.RoleKey(model.RoleBuyer):     "Xaridor",
	flow.RoleKey(model.RoleSeller):    "Sotuvchi",
	flow.RoleKey(model.RoleTenant):    "Ijarachi",
	flow.RoleKey(model.RoleRealtor):   "Rieltor",
	flow.RoleKey(model.RoleAgency):    "Agentlik",
	flow.RoleKey(model.RoleDeveloper): "Quruvchi",

	flow.TypeKey(model.PropertyRental):         "🏠 Ijara",
	flow.TypeKey(model.PropertyDailyRental):    "🛏 Kunlik ijara",
	flow.TypeKey(model.PropertyGarages):        "🚗 Garajlar",
	flow.TypeKey(model.PropertyApartments):     "🏢 Kvartiralar",
	flow.TypeKey(model.PropertyHouses):         "🏡 Uylar",
	flow.TypeKey(model.PropertyCommercial):     "🏬 Tijorat",
	flow.TypeKey(model.PropertyDeveloperHomes): "🏗 Yangi binolar",
	flow.TypeKey(model.PropertyLand):           "🌳 Yer uchastkalari",

	flow.PlanKey(model.Plan1Month):     "1 oy",
	flow.PlanKey(model.Plan3Months):    "3 oy",
	flow.PlanKey(model.Plan6Months):    "6 oy",
	flow.PlanKey(model.Plan1Year):      "1 yil",
	flow.PlanKey(model.PlanPercentage): "Bitimdan foiz",

	flow.FieldKey(flow.FieldType):        "Tur",
	flow.FieldKey(flow.FieldTitle):       "Sarlavha",
	flow.FieldKey(flow.FieldDescription): "Tavsif",
	flow.FieldKey(flow.FieldPrice):       "Narx",
	flow.FieldKey(flow.FieldLocation):    "Manzil",
	flow.FieldKey(flow.FieldPhotos):      "Rasmlar",

	"issue.too_short":            "Tavsif juda qisqa.",
	"issue.too_long":             "Tavsif juda uzun.",
	"issue.missing_price":        "Tavsifda narx yo'q.",
	"issue.price_not_recognized": "Tavsifdagi narx aniqlanmadi.",
	"issue.few_details":          "Obyekt haqida ma'lumot kam.",

	"suggest.add_detail":       "Batafsilroq yozing, kamida 50 belgi.",
	"suggest.shorten":          "Matnni 2000 belgigacha qisqartiring.",
	"suggest.state_price":      "Narxni ko'rsating.",
	"suggest.explicit_price":   "Narxni raqamlar bilan yozing, masalan «Narx: 85 000».",
	"suggest.mention_features": "Xonalar, maydon, qavat yoki tumanni ko'rsating.",

	msgUnexpectedErr: "Xatolik yuz berdi. Keyinroq qayta urinib ko'ring.",
	msgHelp: `
		*Buyruqlar*
		/new: e'lon berish
		/myads: mening e'lonlarim
		/profile: profil
		/payments: to'lovlar tarixi
		/subscription: obuna
		/role: rolni o'zgartirish
		/roles: rollar va narxlar
		/language: tilni o'zgartirish
		/cancel: joriy amalni bekor qilish`,
	msgMyAdsEmpty:       "Sizda hali e'lonlar yo'q. Birinchisini yarating: /new",
	msgMyAdsHeader:      "*Sizning e'lonlaringiz*",
	msgMyAdsItem:        "%d. *%s*\n%s · %s\n%s",
	msgAdDaysLeft:       "%s, %d kun qoldi",
	msgAdExpired:        "⌛ Muddati tugagan",
	msgSubFreeRole:      "talab qilinmaydi",
	msgSubActive:        "%s gacha (%d kun)",
	msgSubInactive:      "faol emas",
	msgLastSubscription: "Oxirgi davr: %s, %s - %s",
	msgProfile: `
		*Profil*
		Ism: %s
		Rol: %s
		Til: %s
		Obuna: %s
		Faol e'lonlar: %d / %d`,
	msgAdminNewListing: "🆕 *Yangi e'lon #%d*\nKimdan: %s\n\n%s",
	msgAdminNewPayment: `
		💳 *To'lov #%d*
		Kimdan: %s
		Rol: %s
		Tarif: %s
		Summa: %s
		Muddat: %d kun
		Kod: ` + "`%s`",
	msgAdminDuplicateReceipt: "⚠️ Bu chek allaqachon #%d to'loviga biriktirilgan (foydalanuvchi %d).",
	msgExpiryReminder:        "⏰ *%s* roli uchun obuna %s kuni tugaydi (%d kun qoldi). Uzaytirish: /subscription",

	statusKey(model.AdStatusPending):  "⏳ Moderatsiyada",
	statusKey(model.AdStatusApproved): "✅ E'lon qilingan",
	statusKey(model.AdStatusRejected): "🚫 Rad etilgan",

	subscriptionKindKey(storage.SubscriptionTrial): "sinov",
	subscriptionKindKey(storage.SubscriptionPaid):  "to'langan",

	commandKey("start"):        "Boshlash",
	commandKey("new"):          "E'lon berish",
	commandKey("myads"):        "Mening e'lonlarim",
	commandKey("profile"):      "Profil",
	commandKey("subscription"): "Obuna",
	commandKey("role"):         "Rolni o'zgartirish",
	commandKey("language"):     "Tilni o'zgartirish",
	commandKey("cancel"):       "Bekor qilish",
	commandKey("help"):         "Yordam",
	commandKey("payments"):     "To'lovlar tarixi",
	commandKey("roles"):        "Rollar va narxlar",

	msgBtnAdDelete:   "🗑 O'chirish №%d",
	msgBtnAdWithdraw: "↩️ Qaytarib olish №%d",
	msgBtnAdRenew:    "🔄 Uzaytirish №%d",
	msgAdDeleted:     "🗑 *%s* e'loni o'chirildi.",
	msgAdWithdrawn:   "↩️ *%s* e'loni moderatsiyadan qaytarib olindi va o'chirildi.",
	msgAdRenewed:     "🔄 *%s* e'loni %d kunga uzaytirildi.",
	msgAdNotFound:    "E'lon topilmadi.",
	msgAdStillActive: "*%s* e'loni hali faol, uni uzaytirish shart emas.",
	msgAdRenewLimit:  "Uzaytirib bo'lmaydi: %d ta e'lon allaqachon faol. Ulardan birini /myads orqali o'chiring yoki obuna bo'ling: /subscription",

	msgBtnPaymentHistory: "💳 To'lovlar tarixi",
	msgPaymentsEmpty:     "Sizda hali to'lovlar yo'q.",
	msgPaymentsHeader:    "*To'lovlar tarixi*",

	msgRolesHeader: "*Rollar*",
	msgRolePaid:    "*%s*: oyiga %s, sinov muddati %d kun",
	msgRoleFree:    "*%s*: bepul, %d tagacha faol e'lon, %d kunga",
	msgRolesFooter: "Rolni o'zgartirish: /role",

	paymentStatusKey(model.PaymentPending):         "⏳ To'lov kutilmoqda",
	paymentStatusKey(model.PaymentReceiptUploaded): "🧾 Chek tekshirilmoqda",
	paymentStatusKey(model.PaymentCancelled):       "✖️ Bekor qilingan",
}

// =============================================================================
// English
// =============================================================================

var enMessages = catalog{
	flow.MsgWelcome:             "Welcome to the real estate listings bot! Let's set up your profile.",
	flow.MsgWelcomeBack:         "Welcome back, %s!\nRole: *%s*\nSubscription days left: %d\n\nNew listing: /new\nAll commands: /help",
	flow.MsgStartFirst:          "Please send /start first.",
	flow.MsgIdleHint:            "Post a listing: /new\nSubscription: /subscription\nAll commands: /help",
	flow.MsgSessionExpired:      "This session has expired. Start again: /new",
	flow.MsgCancelled:           "Cancelled.",
	flow.MsgNothingToCancel:     "Nothing to cancel.",
	flow.MsgUseButtons:          "Please use the buttons above.",
	flow.MsgLanguageSet:         "Language: %s",
	flow.MsgChooseRole:          "Who are you? Choose a role:",
	flow.MsgChooseUpgradeRole:   "Choose a paid role to subscribe to:",
	flow.MsgRoleUnchanged:       "Your role is already *%s*.",
	flow.MsgRoleChanged:         "Role changed to *%s*.",
	flow.MsgRoleTrialGranted:    "Role changed to *%s*. Free trial: %d days.",
	flow.MsgRoleNeedsPlan:       "The *%s* role requires a subscription.",
	flow.MsgConfirmRoleChange:   "You have an active subscription as *%s*. Switch to *%s*? Your subscription period is kept.",
	flow.MsgRoleChangeCancelled: "Role unchanged: *%s*.",

	flow.MsgSubscriptionRequired: "Your *%s* subscription is not active. Renew it: /subscription",
	flow.MsgListingLimitReached:  "You have reached the limit of %d active listings. Wait for one to expire, delete one in /myads or subscribe: /subscription",
	flow.MsgChooseType:           "Choose the property type:",
	flow.MsgEnterTitle:           "Enter the listing title (up to %d characters):",
	flow.MsgTitleTooLong:         "The title is too long. Use at most %d characters.",
	flow.MsgEnterDescription:     "Describe the property: rooms, area, floor, district and price.",
	flow.MsgAnalysisReport:       "The description could be better:",
	flow.MsgPriceDetected:        "Found a price in the description: *%s*. Use it?",
	flow.MsgEnterPrice:           "Enter the price as a number:",
	flow.MsgInvalidPrice:         "Could not read the price. Enter a positive number, for example 85000.",
	flow.MsgEnterLocation:        "Enter the address or district:",
	flow.MsgSendPhotos:           "Send photos (up to %d). Press \"Done\" when finished.",
	flow.MsgPhotoAdded:           "Photo added: %d of %d.",
	flow.MsgSendPhotoOrDone:      "Send a photo or press \"Done\".",
	flow.MsgNoPhotosWarning:      "Listings without photos get fewer responses.",
	flow.MsgPreview:              "Check your listing:",
	flow.MsgChooseEditField:      "What do you want to change?",
	flow.MsgListingSubmitted:     "Your listing was sent for moderation. Thank you!",
	flow.MsgListingCancelled:     "Listing cancelled.",

	flow.MsgSubscriptionStatus: "Your role: *%s*\nSubscription days left: %d",
	flow.MsgSelectPlan:         "Plans for the *%s* role. Base price: %s per month.",
	flow.MsgPercentagePlanInfo: "The percentage-of-deal plan for the *%s* role is arranged by the administrator. Message us to discuss the terms.",
	flow.MsgPaymentInstructions: `
		*Subscription payment*

		Role: *%s*
		Plan: %s
		Amount: *%s*
		Duration: %d days

		Bank: %s
		Card: ` + "`%s`" + `
		Recipient: %s
		Payment code: ` + "`%s`" + `

		Put the payment code in the transfer comment, then upload the receipt.`,
	flow.MsgPaymentHelp:      "Transfer the amount to the card above with the payment code in the comment. Then press \"Upload receipt\" and send a photo of the receipt.",
	flow.MsgSendReceipt:      "Send a photo of the receipt.",
	flow.MsgReceiptExpected:  "A photo of the receipt is needed.",
	flow.MsgReceiptReceived:  "Receipt received. Payment code: `%s`. Your subscription will be activated after review.",
	flow.MsgPaymentCancelled: "Payment cancelled.",

	flow.BtnDone:             "✅ Done",
	flow.BtnAnalysisEdit:     "✏️ Fix it",
	flow.BtnAnalysisContinue: "➡️ Continue",
	flow.BtnPriceUse:         "✅ Use it",
	flow.BtnPriceCustom:      "✏️ Other price",
	flow.BtnSubmit:           "📤 Submit",
	flow.BtnEdit:             "✏️ Edit",
	flow.BtnCancel:           "❌ Cancel",
	flow.BtnBack:             "⬅️ Back",
	flow.BtnConfirm:          "✅ Confirm",
	flow.BtnUploadReceipt:    "🧾 Upload receipt",
	flow.BtnHelp:             "❓ Help",

	flow.RoleKey(model.RoleBuyer):     "Buyer",
	flow.RoleKey(model.RoleSeller):    "Seller",
	flow.RoleKey(model.RoleTenant):    "Tenant",
	flow.RoleKey(model.RoleRealtor):   "Realtor",
	flow.RoleKey(model.RoleAgency):    "Agency",
	flow.RoleKey(model.RoleDeveloper): "Developer",

	flow.TypeKey(model.PropertyRental):         "🏠 Rental",
	flow.TypeKey(model.PropertyDailyRental):    "🛏 Daily rental",
	flow.TypeKey(model.PropertyGarages):        "🚗 Garages",
	flow.TypeKey(model.PropertyApartments):     "🏢 Apartments",
	flow.TypeKey(model.PropertyHouses):         "🏡 Houses",
	flow.TypeKey(model.PropertyCommercial):     "🏬 Commercial",
	flow.TypeKey(model.PropertyDeveloperHomes): "🏗 New developments",
	flow.TypeKey(model.PropertyLand):           "🌳 Land",

	flow.PlanKey(model.Plan1Month):     "1 month",
	flow.PlanKey(model.Plan3Months):    "3 months",
	flow.PlanKey(model.Plan6Months):    "6 months",
	flow.PlanKey(model.Plan1Year):      "1 year",
	flow.PlanKey(model.PlanPercentage): "Percentage of deal",

	flow.FieldKey(flow.FieldType):        "Type",
	flow.FieldKey(flow.FieldTitle):       "Title",
	flow.FieldKey(flow.FieldDescription): "Description",
	flow.FieldKey(flow.FieldPrice):       "Price",
	flow.FieldKey(flow.FieldLocation):    "Location",
	flow.FieldKey(flow.FieldPhotos):      "Photos",

	"issue.too_short":            "The description is too short.",
	"issue.too_long":             "The description is too long.",
	"issue.missing_price":        "The description has no price.",
	"issue.price_not_recognized": "The price in the description was not recognized.",
	"issue.few_details":          "There are few details about the property.",

	"suggest.add_detail":       "Add more detail, at least 50 characters.",
	"suggest.shorten":          "Shorten the text to 2000 characters.",
	"suggest.state_price":      "State the price.",
	"suggest.explicit_price":   "Write the price in digits, for example \"Price: 85 000\".",
	"suggest.mention_features": "Mention rooms, area, floor or district.",

	msgUnexpectedErr: "Something went wrong. Please try again later.",
	msgHelp: `
		*Commands*
		/new: post a listing
		/myads: my listings
		/profile: profile
		/payments: payment history
		/subscription: subscription
		/role: change role
		/roles: roles and prices
		/language: change language
		/cancel: cancel the current action`,
	msgMyAdsEmpty:       "You have no listings yet. Create one: /new",
	msgMyAdsHeader:      "*Your listings*",
	msgMyAdsItem:        "%d. *%s*\n%s · %s\n%s",
	msgAdDaysLeft:       "%s, %d days left",
	msgAdExpired:        "⌛ Expired",
	msgSubFreeRole:      "not required",
	msgSubActive:        "until %s (%d days)",
	msgSubInactive:      "not active",
	msgLastSubscription: "Last period: %s, %s - %s",
	msgProfile: `
		*Profile*
		Name: %s
		Role: %s
		Language: %s
		Subscription: %s
		Active listings: %d of %d`,
	msgAdminNewListing: "🆕 *New listing #%d*\nFrom: %s\n\n%s",
	msgAdminNewPayment: `
		💳 *Payment #%d*
		From: %s
		Role: %s
		Plan: %s
		Amount: %s
		Duration: %d days
		Code: ` + "`%s`",
	msgAdminDuplicateReceipt: "⚠️ This receipt is already attached to payment #%d (user %d).",
	msgExpiryReminder:        "⏰ Your *%s* subscription ends on %s (%d days left). Renew: /subscription",

	statusKey(model.AdStatusPending):  "⏳ In moderation",
	statusKey(model.AdStatusApproved): "✅ Published",
	statusKey(model.AdStatusRejected): "🚫 Rejected",

	subscriptionKindKey(storage.SubscriptionTrial): "trial",
	subscriptionKindKey(storage.SubscriptionPaid):  "paid",

	commandKey("start"):        "Start",
	commandKey("new"):          "Post a listing",
	commandKey("myads"):        "My listings",
	commandKey("profile"):      "Profile",
	commandKey("subscription"): "Subscription",
	commandKey("role"):         "Change role",
	commandKey("language"):     "Change language",
	commandKey("cancel"):       "Cancel",
	commandKey("help"):         "Help",
	commandKey("payments"):     "Payment history",
	commandKey("roles"):        "Roles and prices",

	msgBtnAdDelete:   "🗑 Delete #%d",
	msgBtnAdWithdraw: "↩️ Withdraw #%d",
	msgBtnAdRenew:    "🔄 Renew #%d",
	msgAdDeleted:     "🗑 Listing *%s* deleted.",
	msgAdWithdrawn:   "↩️ Listing *%s* withdrawn from moderation and deleted.",
	msgAdRenewed:     "🔄 Listing *%s* renewed for %d days.",
	msgAdNotFound:    "Listing not found.",
	msgAdStillActive: "Listing *%s* is still active, there is nothing to renew yet.",
	msgAdRenewLimit:  "Cannot renew: you already have %d active listings. Delete one in /myads or subscribe: /subscription",

	msgBtnPaymentHistory: "💳 Payment history",
	msgPaymentsEmpty:     "You have no payments yet.",
	msgPaymentsHeader:    "*Payment history*",

	msgRolesHeader: "*Roles*",
	msgRolePaid:    "*%s*: %s per month, %d-day trial",
	msgRoleFree:    "*%s*: free, up to %d active listings for %d days",
	msgRolesFooter: "Change role: /role",

	paymentStatusKey(model.PaymentPending):         "⏳ Awaiting payment",
	paymentStatusKey(model.PaymentReceiptUploaded): "🧾 Receipt under review",
	paymentStatusKey(model.PaymentCancelled):       "✖️ Cancelled",
}

var messages = map[model.Language]catalog{
	model.LangRussian: ruMessages,
	model.LangUzbek:   uzMessages,
	model.LangEnglish: enMessages,
}

// lookup resolves key in lang, then in the shared catalog, then in the
// default language. Unknown keys come back as the key itself.
func lookup(lang model.Language, key flow.MessageKey) string {
	if s, ok := messages[lang][key]; ok {
		return s
	}
	if s, ok := commonMessages[key]; ok {
		return s
	}
	if s, ok := messages[model.DefaultLanguage][key]; ok {
		return s
	}
	return string(key)
}
