// Copyright 2025 Funnel Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import "errors"

// Kind 错误类别，服务层所有失败都归属于其中之一
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
)

// Error 业务错误，携带类别和稳定的错误码
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

// Is 按错误码匹配，使 errors.Is 对 WithMsg 出来的副本依然成立
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// WithMsg 返回替换了描述信息的副本，错误码与类别保持不变
func (e *Error) WithMsg(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Msg: msg}
}

func unauthorized(code, msg string) *Error {
	return &Error{Kind: KindUnauthorized, Code: code, Msg: msg}
}

func forbidden(code, msg string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Msg: msg}
}

func notFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Msg: msg}
}

func validation(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Msg: msg}
}

func conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Msg: msg}
}

var (
	// 401
	ErrUnauthorized       = unauthorized("UNAUTHORIZED", "authentication required")
	ErrInvalidCredentials = unauthorized("INVALID_CREDENTIALS", "invalid email or password")
	ErrInvalidToken       = unauthorized("INVALID_TOKEN", "invalid or expired token")

	// 403
	ErrForbidden = forbidden("FORBIDDEN", "you don't have permission to perform this action")

	// 404：跨组织访问与不存在返回同一错误，避免泄露其他租户的数据存在性
	ErrUserNotFound         = notFound("USER_NOT_FOUND", "user not found")
	ErrOrganizationNotFound = notFound("ORGANIZATION_NOT_FOUND", "organization not found")
	ErrContactNotFound      = notFound("CONTACT_NOT_FOUND", "contact not found")
	ErrDealNotFound         = notFound("DEAL_NOT_FOUND", "deal not found")
	ErrTaskNotFound         = notFound("TASK_NOT_FOUND", "task not found")

	// 400
	ErrInvalidDealAmount      = validation("INVALID_DEAL_AMOUNT", "cannot close deal as 'won' with amount <= 0")
	ErrInvalidDueDate         = validation("INVALID_DUE_DATE", "due date cannot be in the past")
	ErrInvalidStageTransition = validation("INVALID_STAGE_TRANSITION", "stage rollback is not allowed for your role")
	ErrCrossOrganization      = validation("CROSS_ORGANIZATION_ERROR", "cannot link entities from different organizations")
	ErrDealClosed             = validation("DEAL_ALREADY_CLOSED", "deal is already closed")

	// 409
	ErrEmailAlreadyExists  = conflict("EMAIL_ALREADY_EXISTS", "email is already registered")
	ErrContactHasDeals     = conflict("CONTACT_HAS_DEALS", "cannot delete contact with existing deals")
	ErrMemberAlreadyExists = conflict("MEMBER_ALREADY_EXISTS", "user is already a member of this organization")
)

// KindOf 返回错误所属类别，非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf 返回业务错误码，非业务错误返回空串
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
