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
	"net/http"

	sagaconst "github.com/asgardeo/conductor/internal/saga/constants"
	"github.com/asgardeo/conductor/internal/saga/flow"
	"github.com/asgardeo/conductor/internal/saga/model"
)

// Flow inputs. They reach the steps as per-call data and are not visible to compensations.
const (
	inputOrderID         = "orderId"
	inputRestaurantID    = "restaurantId"
	inputItems           = "items"
	inputDeliveryAddress = "deliveryAddress"
	inputReason          = "reason"
	inputRating          = "rating"
	inputComment         = "comment"
)

// Notification types sent to the notification service.
const (
	notificationOrderCreated   = "order_created"
	notificationDriverAssigned = "driver_assigned"
	notificationOrderCancelled = "order_cancelled"
	notificationReviewCreated  = "review_created"
)

// definitions returns the flows served by this package.
func definitions() []flow.Definition {
	return []flow.Definition{
		createOrderDefinition(),
		acceptDeliveryDefinition(),
		cancelOrderDefinition(),
		createReviewDefinition(),
	}
}

func createOrderDefinition() flow.Definition {
	return flow.Definition{
		Name:   sagaconst.FlowCreateOrder,
		Inputs: []string{inputRestaurantID, inputItems, inputDeliveryAddress},
		Steps: []model.StepDescriptor{
			{
				Name:     sagaconst.StepCreateOrder,
				Service:  sagaconst.ServiceOrder,
				Endpoint: "/orders",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"customerId":      "{{userId}}",
					"customerEmail":   "{{userEmail}}",
					"restaurantId":    "{{restaurantId}}",
					"items":           "{{items}}",
					"deliveryAddress": "{{deliveryAddress}}",
				},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/orders/{{orderId}}/cancel",
					Method:   http.MethodPost,
					Payload:  map[string]any{"reason": "transaction {{transactionId}} rolled back"},
				},
			},
			{
				Name:     sagaconst.StepCreatePayment,
				Service:  sagaconst.ServicePayment,
				Endpoint: "/payments",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"orderId":    "{{orderId}}",
					"customerId": "{{userId}}",
					"amount":     "{{totalAmount}}",
				},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/payments/{{sessionId}}/cancel",
					Method:   http.MethodPost,
				},
			},
			{
				Name:     sagaconst.StepSendOrderNotification,
				Service:  sagaconst.ServiceNotification,
				Endpoint: "/notifications",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"userId":      "{{userId}}",
					"type":        notificationOrderCreated,
					"orderId":     "{{orderId}}",
					"paymentLink": "{{paymentLink}}",
				},
			},
		},
	}
}

func acceptDeliveryDefinition() flow.Definition {
	return flow.Definition{
		Name:   sagaconst.FlowAcceptDelivery,
		Inputs: []string{inputOrderID},
		Steps: []model.StepDescriptor{
			{
				Name:     sagaconst.StepUpdateOrderStatus,
				Service:  sagaconst.ServiceOrder,
				Endpoint: "/orders/{{orderId}}/status",
				Method:   http.MethodPatch,
				Payload:  map[string]any{"status": "accepted", "driverId": "{{userId}}"},
				Writes:   []string{"id", "status"},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/orders/{{update_order_status_id}}/status",
					Method:   http.MethodPatch,
					Payload:  map[string]any{"status": "ready_for_pickup"},
				},
			},
			{
				Name:     sagaconst.StepAssignDelivery,
				Service:  sagaconst.ServiceDelivery,
				Endpoint: "/deliveries",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"orderId":     "{{orderId}}",
					"driverId":    "{{userId}}",
					"driverEmail": "{{userEmail}}",
				},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/deliveries/{{deliveryId}}",
					Method:   http.MethodDelete,
				},
			},
			{
				Name:     sagaconst.StepNotifyDriverAssigned,
				Service:  sagaconst.ServiceNotification,
				Endpoint: "/notifications",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"userId":           "{{userId}}",
					"type":             notificationDriverAssigned,
					"orderId":          "{{orderId}}",
					"deliveryId":       "{{deliveryId}}",
					"estimatedArrival": "{{estimatedArrival}}",
				},
			},
		},
	}
}

func cancelOrderDefinition() flow.Definition {
	return flow.Definition{
		Name:   sagaconst.FlowCancelOrder,
		Inputs: []string{inputOrderID, inputReason},
		Steps: []model.StepDescriptor{
			{
				Name:     sagaconst.StepGetOrder,
				Service:  sagaconst.ServiceOrder,
				Endpoint: "/orders/{{orderId}}",
				Method:   http.MethodGet,
			},
			{
				Name:     sagaconst.StepCancelOrder,
				Service:  sagaconst.ServiceOrder,
				Endpoint: "/orders/{{orderId}}/cancel",
				Method:   http.MethodPost,
				Payload:  map[string]any{"reason": "{{reason}}", "cancelledBy": "{{userId}}"},
				Writes:   []string{"status"},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/orders/{{orderId}}/restore",
					Method:   http.MethodPost,
					Payload:  map[string]any{"status": "{{orderStatus}}"},
				},
			},
			{
				Name:     sagaconst.StepProcessRefund,
				Service:  sagaconst.ServicePayment,
				Endpoint: "/refunds",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"orderId": "{{orderId}}",
					"amount":  "{{totalAmount}}",
					"reason":  "{{reason}}",
				},
			},
			{
				Name:     sagaconst.StepNotifyOrderCancelled,
				Service:  sagaconst.ServiceNotification,
				Endpoint: "/notifications",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"userId":   "{{customerId}}",
					"type":     notificationOrderCancelled,
					"orderId":  "{{orderId}}",
					"refundId": "{{refundId}}",
				},
			},
		},
	}
}

func createReviewDefinition() flow.Definition {
	return flow.Definition{
		Name:   sagaconst.FlowCreateReview,
		Inputs: []string{inputOrderID, inputRestaurantID, inputRating, inputComment},
		Steps: []model.StepDescriptor{
			{
				Name:     sagaconst.StepCreateReview,
				Service:  sagaconst.ServiceReview,
				Endpoint: "/reviews",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"orderId":      "{{orderId}}",
					"restaurantId": "{{restaurantId}}",
					"customerId":   "{{userId}}",
					"rating":       "{{rating}}",
					"comment":      "{{comment}}",
				},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/reviews/{{reviewId}}",
					Method:   http.MethodDelete,
				},
			},
			{
				Name:     sagaconst.StepUpdateRestaurantRating,
				Service:  sagaconst.ServiceRestaurant,
				Endpoint: "/restaurants/{{restaurantId}}/ratings",
				Method:   http.MethodPost,
				Payload:  map[string]any{"reviewId": "{{reviewId}}", "rating": "{{rating}}"},
				Writes:   []string{"averageRating"},
				Compensation: &model.CompensationDescriptor{
					Endpoint: "/restaurants/{{restaurantId}}/ratings/{{reviewId}}",
					Method:   http.MethodDelete,
				},
			},
			{
				Name:     sagaconst.StepNotifyReviewCreated,
				Service:  sagaconst.ServiceNotification,
				Endpoint: "/notifications",
				Method:   http.MethodPost,
				Payload: map[string]any{
					"userId":       "{{userId}}",
					"type":         notificationReviewCreated,
					"reviewId":     "{{reviewId}}",
					"restaurantId": "{{restaurantId}}",
				},
			},
		},
	}
}
