/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package workflow

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	maxReasonLength  = 500
	maxCommentLength = 2000
	minRating        = 1
	maxRating        = 5
)

// OrderItem is one line of an order.
type OrderItem struct {
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

// Validate checks an order line.
func (i OrderItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.MenuItemID, validation.Required),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1)),
	)
}

// CreateOrderRequest is the body of the create order request.
type CreateOrderRequest struct {
	RestaurantID    string      `json:"restaurantId"`
	Items           []OrderItem `json:"items"`
	DeliveryAddress string      `json:"deliveryAddress"`
}

// Validate checks the create order request.
func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RestaurantID, validation.Required),
		validation.Field(&r.Items, validation.Required),
		validation.Field(&r.DeliveryAddress, validation.Required),
	)
}

// CancelOrderRequest is the optional body of the cancel order request.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Validate checks the cancel order request.
func (r CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.RuneLength(0, maxReasonLength)),
	)
}

// CreateReviewRequest is the body of the create review request.
type CreateReviewRequest struct {
	OrderID      string `json:"orderId"`
	RestaurantID string `json:"restaurantId"`
	Rating       int    `json:"rating"`
	Comment      string `json:"comment"`
}

// Validate checks the create review request.
func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderID, validation.Required),
		validation.Field(&r.RestaurantID, validation.Required),
		validation.Field(&r.Rating, validation.Required, validation.Min(minRating), validation.Max(maxRating)),
		validation.Field(&r.Comment, validation.RuneLength(0, maxCommentLength)),
	)
}
