package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedShoppingList = errors.New("model: malformed shopping list")

type ShoppingItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsCompleted bool   `json:"isCompleted"`
}

func (i ShoppingItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("model: shopping item id is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("model: shopping item name is required")
	}
	return nil
}

func EncodeShoppingList(items []ShoppingItem) (string, error) {
	if items == nil {
		items = []ShoppingItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func DecodeShoppingList(raw string) ([]ShoppingItem, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedShoppingList)
	}
	var items []ShoppingItem
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedShoppingList, err)
	}
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformedShoppingList, idx, err)
		}
	}
	return items, nil
}
