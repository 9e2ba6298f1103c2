package logging

import "log/slog"

// Domain identifiers

func User(id string) slog.Attr {
	return slog.String("user_id", id)
}

func Connection(id string) slog.Attr {
	return slog.String("connection_id", id)
}

func Area(id string) slog.Attr {
	return slog.String("area_id", id)
}

func MsgType(t string) slog.Attr {
	return slog.String("message_type", t)
}

// Error handling

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}
