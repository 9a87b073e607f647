package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/bagstock/internal/domain/models"
	"github.com/mamadbah2/bagstock/internal/service/consumption"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the commands operators can send.
const HelpText = "Comandos disponibles:\n" +
	"/consumo [desde] [hasta] - consumo de bolsas (fechas AAAA-MM-DD)\n" +
	"/inventario - bolsas disponibles hoy\n" +
	"/skus - SKUs vendidos sin mapa de bolsas\n" +
	"/ayuda - este mensaje"

// ReportGenerator produces consumption reports for a date window.
type ReportGenerator interface {
	Generate(ctx context.Context, from, to *time.Time) (consumption.Result, error)
	Location() *time.Location
}

// Dispatcher executes parsed commands and renders their replies.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	reports ReportGenerator
	logger  *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(reports ReportGenerator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reports: reports, logger: logger}
}

// HandleCommand runs the report behind cmd and returns the text reply.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandConsumption:
		from, to, err := s.parseWindowArgs(cmd.Args)
		if err != nil {
			return "", err
		}
		result, err := s.reports.Generate(ctx, from, to)
		if err != nil {
			return "", err
		}
		return consumption.Summary(result), nil
	case models.CommandInventory:
		result, err := s.reports.Generate(ctx, nil, nil)
		if err != nil {
			return "", err
		}
		return consumption.InventorySummary(result), nil
	case models.CommandUnmapped:
		result, err := s.reports.Generate(ctx, nil, nil)
		if err != nil {
			return "", err
		}
		return consumption.UnmappedSummary(result), nil
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) parseWindowArgs(args []string) (*time.Time, *time.Time, error) {
	if len(args) > 2 {
		return nil, nil, ErrInvalidArguments
	}

	loc := s.reports.Location()
	var bounds [2]*time.Time
	for i, arg := range args {
		t, err := consumption.ParseDate(arg, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", ErrInvalidArguments, arg)
		}
		bounds[i] = t
	}
	return bounds[0], bounds[1], nil
}
