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

// Package constants defines the constants used by the saga orchestration engine.
package constants

// Names of the flows registered at startup.
const (
	FlowCreateOrder    = "create_order"
	FlowAcceptDelivery = "accept_delivery"
	FlowCancelOrder    = "cancel_order"
	FlowCreateReview   = "create_review"
)

// Names of the steps that have a dedicated extraction rule.
const (
	StepCreateOrder    = "create_order"
	StepCreatePayment  = "create_payment"
	StepAssignDelivery = "assign_delivery"
	StepGetOrder       = "get_order"
	StepProcessRefund  = "process_refund"
	StepCreateReview   = "create_review"
)

// Names of the steps stored by the generic extraction rule.
const (
	StepSendOrderNotification  = "send_order_notification"
	StepUpdateOrderStatus      = "update_order_status"
	StepNotifyDriverAssigned   = "notify_driver_assigned"
	StepCancelOrder            = "cancel_order"
	StepNotifyOrderCancelled   = "notify_order_cancelled"
	StepUpdateRestaurantRating = "update_restaurant_rating"
	StepNotifyReviewCreated    = "notify_review_created"
)

// Logical names of the downstream services.
const (
	ServiceOrder        = "order"
	ServicePayment      = "payment"
	ServiceDelivery     = "delivery"
	ServiceNotification = "notification"
	ServiceRestaurant   = "restaurant"
	ServiceReview       = "review"
)

// GenericInternalErrorMessage is reported to the caller when a transaction fails for a reason other
// than a step or business rule failure.
const GenericInternalErrorMessage = "internal error while processing transaction"

// PaymentStatusPaid is the payment status that makes an order refundable.
const PaymentStatusPaid = "paid"

// RoleAdmin is the caller role allowed to read the journal records of every user.
const RoleAdmin = "admin"

// Outcome labels used by the saga metrics.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)
