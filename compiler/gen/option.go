package gen

import (
	"errors"
	"log/slog"
)

// Option configures code generation.
type Option func(*Config) error

// required rejects an empty value for option before calling set.
func required(option, value, what string, set func()) error {
	if value == "" {
		return NewConfigError(option, nil, what+" cannot be empty")
	}
	set()
	return nil
}

// WithHeader sets a comment written above the package clause of every
// generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the package clause of the generated files.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		return required("Package", pkg, "package", func() { c.Package = pkg })
	}
}

// WithTarget sets the directory the files are written to.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		return required("Target", dir, "target directory", func() { c.Target = dir })
	}
}

// WithType declares the boolean timestamps of one struct.
//
//	gen.WithType("User",
//		&gen.FieldConfig{Active: "activate"},
//		&gen.FieldConfig{Active: "close", Nullable: gen.NullableSQL},
//	)
func WithType(name string, fields ...*FieldConfig) Option {
	return func(c *Config) error {
		return required("Type", name, "type name", func() {
			c.Types = append(c.Types, &TypeConfig{Name: name, Fields: fields})
		})
	}
}

// WithForce disables the snapshot check.
func WithForce(force bool) Option {
	return func(c *Config) error {
		c.Force = force
		return nil
	}
}

// WithWorkers bounds the number of files formatted and written at once.
// Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger. A nil logger means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// Apply runs opts in order and stops at the first error.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll runs every option and joins their errors.
func (c *Config) ApplyAll(opts ...Option) error {
	errs := make([]error, 0, len(opts))
	for _, opt := range opts {
		errs = append(errs, opt(c))
	}
	return errors.Join(errs...)
}

// NewConfig returns a Config built from opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := new(Config)
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
