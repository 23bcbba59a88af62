package common

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/mattn/go-isatty"
)

func LogFormatter(f string) log15.Format {
	var formatter log15.Format
	switch f {
	case "terminal":
		if InTest || isatty.IsTerminal(os.Stdout.Fd()) {
			formatter = log15.TerminalFormat()
		} else {
			formatter = log15.LogfmtFormat()
		}
	case "", "json":
		formatter = JSONLogFormat(true)
	}

	return formatter
}

func LogHandler(format log15.Format, f string) (log15.Handler, error) {
	if len(f) < 1 {
		return log15.StreamHandler(os.Stdout, format), nil
	}

	return log15.FileHandler(f, format)
}

func SetLogger(logger log15.Logger, level log15.Lvl, handler log15.Handler) {
	logger.SetHandler(log15.LvlFilterHandler(level, handler))
}

const logErrorKey = "LOG_ERROR"

func formatLogJSONValue(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Marshaler:
		return v
	case Time:
		return v.String()
	case time.Time:
		return v.Format(TimeFormatISO8601)
	case time.Duration:
		return v.String()
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

func JSONLogFormat(lineSeparated bool) log15.Format {
	return log15.FormatFunc(func(r *log15.Record) []byte {
		props := make(map[string]interface{})

		props[r.KeyNames.Time] = r.Time
		props[r.KeyNames.Lvl] = r.Lvl.String()
		props[r.KeyNames.Msg] = r.Msg

		for i := 0; i < len(r.Ctx); i += 2 {
			k, ok := r.Ctx[i].(string)
			if !ok {
				props[logErrorKey] = fmt.Sprintf("%+v is not a string key", r.Ctx[i])
				continue
			}
			props[k] = formatLogJSONValue(r.Ctx[i+1])
		}

		b, err := json.Marshal(props)
		if err != nil {
			b, _ = json.Marshal(map[string]string{logErrorKey: err.Error()})
			return b
		}

		if lineSeparated {
			b = append(b, '\n')
		}

		return b
	})
}
