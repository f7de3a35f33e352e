// Package components defines ECS components for the needle field.
package components
