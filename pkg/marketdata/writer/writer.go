package writer

import (
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rxtech-lab/index-history/internal/logger"
	"github.com/rxtech-lab/index-history/internal/types"
	"github.com/rxtech-lab/index-history/pkg/errors"
)

// WriterType names an output format.
type WriterType string

const (
	WriterCSV     WriterType = "csv"
	WriterParquet WriterType = "parquet"
)

// WriterTypes lists every supported output format.
var WriterTypes = []WriterType{WriterCSV, WriterParquet}

// ValidationTag is the validator tag accepting only WriterTypes.
const ValidationTag = "writer_type"

func (t WriterType) IsValid() bool {
	return slices.Contains(WriterTypes, t)
}

// RegisterValidation adds ValidationTag to validate.
func RegisterValidation(validate *validator.Validate) error {
	return validate.RegisterValidation(ValidationTag, func(fl validator.FieldLevel) bool {
		return WriterType(fl.Field().String()).IsValid()
	})
}

// JoinWriterTypes renders WriterTypes for help text.
func JoinWriterTypes(sep string) string {
	names := make([]string, 0, len(WriterTypes))
	for _, t := range WriterTypes {
		names = append(names, string(t))
	}

	return strings.Join(names, sep)
}

// MarketDataWriter defines the interface for writing a price table to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer for a table of the given shape, creating tables or files.
	Initialize(schema types.Schema) error
	// Write persists a single bar.
	Write(bar types.Bar) error
	// Finalize completes the writing process (e.g., commits transactions, exports files).
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer. Calling Close without
	// Finalize discards everything written so far.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// NewMarketDataWriter creates the writer for writerType.
func NewMarketDataWriter(writerType WriterType, outputPath string, log *logger.Logger) (MarketDataWriter, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	switch writerType {
	case WriterCSV:
		return NewCSVWriter(outputPath, log), nil
	case WriterParquet:
		return NewDuckDBWriter(outputPath, log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidWriter, "unsupported writer type: %s", writerType)
	}
}
