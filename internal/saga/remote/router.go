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

import (
	"maps"
	"slices"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/asgardeo/conductor/internal/system/config"
)

// ServiceRouterInterface resolves logical service names to base URLs.
type ServiceRouterInterface interface {
	BaseURL(service string) (string, bool)
}

// ServiceRouter is a concurrent lookup table of service base URLs.
type ServiceRouter struct {
	routes *xsync.MapOf[string, string]
}

// NewServiceRouter creates a router from the configured services.
func NewServiceRouter(services map[string]config.ServiceConfig) *ServiceRouter {
	router := &ServiceRouter{routes: xsync.NewMapOf[string, string]()}
	for name, svc := range services {
		router.Register(name, svc.BaseURL)
	}
	return router
}

// Register adds or replaces the base URL of a service.
func (r *ServiceRouter) Register(service, baseURL string) {
	r.routes.Store(service, strings.TrimRight(baseURL, "/"))
}

// BaseURL returns the base URL of a service.
func (r *ServiceRouter) BaseURL(service string) (string, bool) {
	return r.routes.Load(service)
}

// Services returns the registered service names in sorted order.
func (r *ServiceRouter) Services() []string {
	names := make(map[string]struct{}, r.routes.Size())
	r.routes.Range(func(name string, _ string) bool {
		names[name] = struct{}{}
		return true
	})
	return slices.Sorted(maps.Keys(names))
}
