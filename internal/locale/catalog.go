package locale

var catalog = map[string]map[Key]string{
	LangRU: {
		KeyWelcome: "👋 Добро пожаловать в службу поддержки!\n\n" +
			"📨 Отправьте ваше сообщение, и администратор ответит вам " +
			"в ближайшее время.\n\n" +
			"🛠 Доступные команды:\n" +
			"/help - показать это сообщение\n" +
			"/mytickets - мои обращения",
		KeyLanguageSelect: "🌐 Выберите язык:",
		KeyBanned:         "⛔ Ваш аккаунт заблокирован администратором",
		KeyAccessDenied:   "⛔ Доступ запрещен",
		KeyNoTickets:      "📭 У вас пока нет обращений",
		KeyTicketsHeader:  "📂 Ваши обращения:",
		KeyTicketItem: "{status_icon} #{ticket_id} - {status}\n" +
			"📅 {date}\n" +
			"📝 {preview}...",
		KeyTicketCreated: "✅ Ваше обращение принято под номером #{ticket_id}\n" +
			"Администратор ответит вам в ближайшее время.",
		KeyAdminNotification: "📩 Новое обращение #{ticket_id}\n" +
			"👤 Пользователь: @{username} (ID: {user_id})\n" +
			"📅 Дата: {date}\n\n" +
			"📝 Текст:\n{message}",
		KeyUserReply: "📬 Ответ на обращение #{ticket_id}:\n\n{reply_text}",
		KeyBanNotification: "⛔ Ваш аккаунт заблокирован.\n" +
			"Причина: {reason}",
		KeyUnbanNotification: "✅ Ваш аккаунт разблокирован. " +
			"Вы снова можете обращаться в поддержку.",
		KeyGenericError: "⚠️ Произошла ошибка при обработке запроса. " +
			"Администратор уже уведомлен.",
		KeyButtonReply: "✉️ Ответить",
		KeyButtonClose: "🔒 Закрыть",
		KeyButtonBan:   "⛔ Блокировать",
	},
	LangEN: {
		KeyWelcome: "👋 Welcome to the support service!\n\n" +
			"📨 Send your message and an administrator will reply " +
			"as soon as possible.\n\n" +
			"🛠 Available commands:\n" +
			"/help - show this message\n" +
			"/mytickets - my tickets",
		KeyLanguageSelect: "🌐 Choose your language:",
		KeyBanned:         "⛔ Your account has been blocked by an administrator",
		KeyAccessDenied:   "⛔ Access denied",
		KeyNoTickets:      "📭 You have no tickets yet",
		KeyTicketsHeader:  "📂 Your tickets:",
		KeyTicketItem: "{status_icon} #{ticket_id} - {status}\n" +
			"📅 {date}\n" +
			"📝 {preview}...",
		KeyTicketCreated: "✅ Your ticket has been registered as #{ticket_id}\n" +
			"An administrator will reply as soon as possible.",
		KeyAdminNotification: "📩 New ticket #{ticket_id}\n" +
			"👤 User: @{username} (ID: {user_id})\n" +
			"📅 Date: {date}\n\n" +
			"📝 Text:\n{message}",
		KeyUserReply: "📬 Reply to ticket #{ticket_id}:\n\n{reply_text}",
		KeyBanNotification: "⛔ Your account has been blocked.\n" +
			"Reason: {reason}",
		KeyUnbanNotification: "✅ Your account has been unblocked. " +
			"You can contact support again.",
		KeyGenericError: "⚠️ An error occurred while processing your request. " +
			"The administrator has been notified.",
		KeyButtonReply: "✉️ Reply",
		KeyButtonClose: "🔒 Close",
		KeyButtonBan:   "⛔ Ban",
	},
	LangDE: {
		KeyWelcome: "👋 Willkommen beim Support!\n\n" +
			"📨 Senden Sie Ihre Nachricht, ein Administrator antwortet " +
			"so bald wie möglich.\n\n" +
			"🛠 Verfügbare Befehle:\n" +
			"/help - diese Nachricht anzeigen\n" +
			"/mytickets - meine Anfragen",
		KeyLanguageSelect: "🌐 Sprache wählen:",
		KeyBanned:         "⛔ Ihr Konto wurde von einem Administrator gesperrt",
		KeyAccessDenied:   "⛔ Zugriff verweigert",
		KeyNoTickets:      "📭 Sie haben noch keine Anfragen",
		KeyTicketsHeader:  "📂 Ihre Anfragen:",
		KeyTicketItem: "{status_icon} #{ticket_id} - {status}\n" +
			"📅 {date}\n" +
			"📝 {preview}...",
		KeyTicketCreated: "✅ Ihre Anfrage wurde unter der Nummer #{ticket_id} registriert\n" +
			"Ein Administrator antwortet so bald wie möglich.",
		KeyAdminNotification: "📩 Neue Anfrage #{ticket_id}\n" +
			"👤 Benutzer: @{username} (ID: {user_id})\n" +
			"📅 Datum: {date}\n\n" +
			"📝 Text:\n{message}",
		KeyUserReply: "📬 Antwort auf Anfrage #{ticket_id}:\n\n{reply_text}",
		KeyBanNotification: "⛔ Ihr Konto wurde gesperrt.\n" +
			"Grund: {reason}",
		KeyUnbanNotification: "✅ Ihr Konto wurde entsperrt. " +
			"Sie können den Support wieder kontaktieren.",
		KeyGenericError: "⚠️ Bei der Bearbeitung Ihrer Anfrage ist ein Fehler aufgetreten. " +
			"Der Administrator wurde benachrichtigt.",
		KeyButtonReply: "✉️ Antworten",
		KeyButtonClose: "🔒 Schließen",
		KeyButtonBan:   "⛔ Sperren",
	},
}
