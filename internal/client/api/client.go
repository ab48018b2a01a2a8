package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iudanet/dashsync/internal/models"
	"github.com/iudanet/dashsync/pkg/api"
)

const (
	defaultTimeout = 30 * time.Second
	// maxErrorBody ограничивает размер тела ответа, попадающего в текст ошибки
	maxErrorBody = 1024
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient создает новый API клиент.
// token - токен устройства, передается в заголовке Authorization если не пустой
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Create отправляет новую запись: POST /api/{collection}
func (c *Client) Create(ctx context.Context, record *models.Record) error {
	return c.doRequest(ctx, http.MethodPost, api.CollectionPath(string(record.Collection)), nil, record, nil)
}

// Update отправляет измененную запись: PUT /api/{collection}/{id}
func (c *Client) Update(ctx context.Context, record *models.Record) error {
	return c.doRequest(ctx, http.MethodPut, api.RecordPath(string(record.Collection), record.ID), nil, record, nil)
}

// ForceUpdate перезаписывает серверную версию без проверки конфликта
func (c *Client) ForceUpdate(ctx context.Context, record *models.Record) error {
	headers := map[string]string{api.ForceUpdateHeader: "true"}
	return c.doRequest(ctx, http.MethodPut, api.RecordPath(string(record.Collection), record.ID), headers, record, nil)
}

// Delete удаляет запись: DELETE /api/{collection}/{id}
func (c *Client) Delete(ctx context.Context, collection models.Collection, id string) error {
	return c.doRequest(ctx, http.MethodDelete, api.RecordPath(string(collection), id), nil, nil, nil)
}

// ForceDelete удаляет запись на сервере независимо от серверной версии
func (c *Client) ForceDelete(ctx context.Context, collection models.Collection, id string) error {
	headers := map[string]string{api.ForceUpdateHeader: "true"}
	return c.doRequest(ctx, http.MethodDelete, api.RecordPath(string(collection), id), headers, nil, nil)
}

// Get получает запись с сервера
func (c *Client) Get(ctx context.Context, collection models.Collection, id string) (*models.Record, error) {
	var record models.Record
	if err := c.doRequest(ctx, http.MethodGet, api.RecordPath(string(collection), id), nil, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, api.HealthPath, nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос и преобразует ответ в типизированные ошибки
func (c *Client) doRequest(ctx context.Context, method, path string, headers map[string]string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Method: method, URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Method: method, URL: url, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode == http.StatusConflict {
		var server models.Record
		if err := json.Unmarshal(respBody, &server); err == nil && server.ID != "" {
			return &ConflictError{Server: &server}
		}
		// 409 без записи в теле обрабатывается как обычная ошибка статуса
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := strings.TrimSpace(string(respBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: truncateBody(text, maxErrorBody)}
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// truncateBody обрезает текст не длиннее max байт, не разрезая UTF-8 символ
func truncateBody(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
