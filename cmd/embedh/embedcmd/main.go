package embedcmd

import (
	"context"
	"io"
	"log/slog"
)

type Arguments struct {
	Source      string
	Dest        string
	GuardName   string
	ConstName   string
	Manifest    string
	Watch       bool
	WorkerCount int
	FileWriter  FileWriterFunc
}

func Run(ctx context.Context, log *slog.Logger, stdout io.Writer, args Arguments) (err error) {
	return NewEmbed(log, stdout, args).Run(ctx)
}
