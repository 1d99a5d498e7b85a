package transfer

type JokeCreation struct {
	Text         string `json:"text" validate:"required"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
}

type QuoteCreation struct {
	Text         string  `json:"text" validate:"required"`
	Author       *string `json:"author"`
	IsActive     *bool   `json:"is_active"`
	DisplayOrder int     `json:"display_order"`
}

type TickerCreation struct {
	Message      string `json:"message" validate:"required"`
	IsActive     *bool  `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
}
