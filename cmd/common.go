/*
Copyright © 2025 Vitalii Lytvyn <vitln.dev@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vitln/modlate/internal/translator"
)

// buildService constructs the translation provider selected by name. HTTP
// providers are wrapped in a circuit breaker so a misbehaving remote does
// not get hammered batch after batch.
func buildService(name string) (translator.TranslationService, error) {
	switch name {
	case "google":
		return translator.NewGoogleService(), nil
	case "mymemory":
		return translator.WithBreaker(
			translator.NewMyMemoryService(viper.GetString("mymemory_email"))), nil
	case "openai":
		return translator.WithBreaker(
			translator.NewOpenAIService(viper.GetString("openai_api_key"), viper.GetString("openai_model"))), nil
	default:
		return nil, fmt.Errorf("unknown service: %s", name)
	}
}

// serviceConfig assembles provider credentials from configuration.
func serviceConfig() translator.ServiceConfig {
	return translator.ServiceConfig{
		Credentials: viper.GetString("google_credentials"),
		ProjectID:   viper.GetString("google_project_id"),
		APIKey:      viper.GetString("openai_api_key"),
		Model:       viper.GetString("openai_model"),
	}
}
