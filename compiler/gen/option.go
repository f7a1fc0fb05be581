package gen

import "errors"

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output root directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("", "Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithTabWidth sets the number of spaces per indentation stop.
// Zero emits hard tabs.
func WithTabWidth(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("", "TabWidth", n, "tab width cannot be negative")
		}
		c.Options.TabWidth = n
		return nil
	}
}

// WithSingleQuotes renders string literals and import specifiers with
// single quotes.
func WithSingleQuotes() Option {
	return func(c *Config) error {
		c.Options.SingleQuotes = true
		return nil
	}
}

// WithConstEnums renders enums with the "const" modifier.
func WithConstEnums() Option {
	return func(c *Config) error {
		c.Options.ConstEnums = true
		return nil
	}
}

// WithIndexFile enables generation of an index barrel file.
func WithIndexFile() Option {
	return func(c *Config) error {
		c.IndexFile = true
		return nil
	}
}

// WithTypeNameConverter sets the converter for TypeScript type names.
func WithTypeNameConverter(conv Converter) Option {
	return func(c *Config) error {
		if conv == nil {
			return NewConfigError("", "TypeNameConverter", nil, "converter cannot be nil")
		}
		c.TypeNameConverter = conv
		return nil
	}
}

// WithMemberNameConverter sets the converter for property names.
func WithMemberNameConverter(conv Converter) Option {
	return func(c *Config) error {
		if conv == nil {
			return NewConfigError("", "MemberNameConverter", nil, "converter cannot be nil")
		}
		c.MemberNameConverter = conv
		return nil
	}
}

// WithFileNameConverter sets the converter for output file base names.
func WithFileNameConverter(conv Converter) Option {
	return func(c *Config) error {
		if conv == nil {
			return NewConfigError("", "FileNameConverter", nil, "converter cannot be nil")
		}
		c.FileNameConverter = conv
		return nil
	}
}

// Apply applies options to the config. It returns the first error
// encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options applied over the
// formatting defaults.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Options: DefaultOptions()}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
