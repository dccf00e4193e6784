// Package gateway предоставляет типизированный клиент REST API склада.
//
// Клиент не кэширует ответы и не повторяет запросы: любая ошибка
// возвращается вызывающему в виде *Error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/mmeshcher/inventory-console/internal/model"
)

const (
	// DefaultBaseURL задаёт адрес API по умолчанию.
	DefaultBaseURL = "http://127.0.0.1:8001/ap/v1"
	// DefaultTimeout задаёт фиксированный таймаут запроса.
	DefaultTimeout = 10 * time.Second

	maxErrorBody = 4 << 10
)

// Client инкапсулирует HTTP-взаимодействие с API склада.
// Cookie сессии сохраняются и отправляются с каждым запросом.
type Client struct {
	baseURL    string
	httpClient *http.Client

	Products       *Resource[model.Product]
	Suppliers      *Resource[model.Supplier]
	Customers      *Resource[model.Customer]
	Orders         *Resource[model.Order]
	PurchaseOrders *Resource[model.PurchaseOrder]
	Users          *Resource[model.User]
	Notifications  *Resource[model.Notification]
}

// NewClient создаёт клиент API по указанному адресу.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	// cookiejar.New возвращает ошибку только при неверных опциях.
	jar, _ := cookiejar.New(nil)

	c := &Client{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}

	c.Products = newResource[model.Product](c)
	c.Suppliers = newResource[model.Supplier](c)
	c.Customers = newResource[model.Customer](c)
	c.Orders = newResource[model.Order](c)
	c.PurchaseOrders = newResource[model.PurchaseOrder](c)
	c.Users = newResource[model.User](c)
	c.Notifications = newResource[model.Notification](c)

	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), reader)
	if err != nil {
		return &Error{Kind: KindTransport, Message: fmt.Sprintf("create request: %v", err), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(ctx, err)
	}

	if err := json.Unmarshal(unwrap(raw), out); err != nil {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err), Err: err}
	}

	return nil
}

func transportError(ctx context.Context, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindTransport, Message: "request cancelled", Err: ctxErr}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return &Error{Kind: KindTransport, Message: "request timed out", Err: err}
	}

	return &Error{Kind: KindTransport, Message: fmt.Sprintf("do request: %v", err), Err: err}
}

func responseError(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	message := ""
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		message = body.Error
		if message == "" {
			message = body.Message
		}
	} else {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &Error{
		Kind:    kindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: message,
	}
}

// unwrap снимает транспортный конверт {"data": ...}. Списки бывают обёрнуты дважды.
func unwrap(raw []byte) []byte {
	for i := 0; i < 2; i++ {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return raw
		}

		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return raw
		}
		data, ok := env["data"]
		if !ok {
			return raw
		}
		raw = data
	}
	return raw
}
