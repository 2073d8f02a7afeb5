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

package remote

import "time"

// Backoff computes retry delays that double per attempt up to a cap.
type Backoff struct {
	Base time.Duration
	Cap  time.Duration
}

// Delay returns the wait after the given failed attempt (1-based): min(Base * 2^(attempt-1), Cap).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 || b.Base <= 0 {
		return 0
	}
	shift := attempt - 1
	// Past 62 doublings any positive base overflows int64.
	if shift >= 62 {
		return b.Cap
	}
	delay := b.Base << uint(shift)
	if delay <= 0 || delay>>uint(shift) != b.Base || delay > b.Cap {
		return b.Cap
	}
	return delay
}
