package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wellbeat/awareness-api/internal/models"
	"github.com/wellbeat/awareness-api/internal/service"
	"github.com/wellbeat/awareness-api/internal/transfer"
)

// ContentHandler serves the flat dashboard content: jokes, quotes and
// ticker messages.
type ContentHandler struct {
	jokes  service.JokeService
	quotes service.QuoteService
	ticker service.TickerService
}

func NewContentHandler(jokes service.JokeService, quotes service.QuoteService, ticker service.TickerService) *ContentHandler {
	return &ContentHandler{jokes: jokes, quotes: quotes, ticker: ticker}
}

func (h *ContentHandler) ListJokes(c *fiber.Ctx) error {
	jokes, err := h.jokes.List(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	if jokes == nil {
		jokes = []*models.Joke{}
	}
	return c.JSON(jokes)
}

func (h *ContentHandler) CreateJoke(c *fiber.Ctx) error {
	var req transfer.JokeCreation
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}
	joke, err := h.jokes.Create(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(joke)
}

func (h *ContentHandler) UpdateJoke(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req transfer.JokeCreation
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}
	joke, err := h.jokes.Update(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(joke)
}

func (h *ContentHandler) DeleteJoke(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.jokes.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Joke deleted"})
}

func (h *ContentHandler) ListQuotes(c *fiber.Ctx) error {
	quotes, err := h.quotes.List(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	if quotes == nil {
		quotes = []*models.Quote{}
	}
	return c.JSON(quotes)
}

func (h *ContentHandler) CreateQuote(c *fiber.Ctx) error {
	var req transfer.QuoteCreation
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}
	quote, err := h.quotes.Create(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(quote)
}

func (h *ContentHandler) UpdateQuote(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req transfer.QuoteCreation
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}
	quote, err := h.quotes.Update(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(quote)
}

func (h *ContentHandler) DeleteQuote(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.quotes.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Quote deleted"})
}

func (h *ContentHandler) ListTickerMessages(c *fiber.Ctx) error {
	msgs, err := h.ticker.List(c.Context(), c.QueryBool("active", false))
	if err != nil {
		return err
	}
	if msgs == nil {
		msgs = []*models.TickerMessage{}
	}
	return c.JSON(msgs)
}

func (h *ContentHandler) CreateTickerMessage(c *fiber.Ctx) error {
	var req transfer.TickerCreation
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.ticker.Create(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

func (h *ContentHandler) UpdateTickerMessage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req transfer.TickerCreation
	if err := parseAndValidate(c, &req); err != nil {
		return err
	}
	msg, err := h.ticker.Update(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(msg)
}

func (h *ContentHandler) DeleteTickerMessage(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.ticker.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticker message deleted"})
}
