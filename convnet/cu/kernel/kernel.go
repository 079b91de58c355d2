// Package kernel carries the compiled PTX image of the convolution scoring
// kernel.
package kernel

// PTXconvpoolCUDA computes one relu max-over-time convolution response per
// thread. Thread t scores feature map t%maps of sentence t/maps; the weights
// buffer holds the embedding table, then every filter bank, then the filter
// biases, laid out the way cu.flattenWeights packs them.
const PTXconvpoolCUDA = `
//
// Generated by NVIDIA NVVM Compiler
//
// Compiler Build ID: CL-33191640
// Cuda compilation tools, release 12.2, V12.2.140
// Based on NVVM 7.0.1
//

.version 8.2
.target sm_52
.address_size 64

	// .globl	convpool

.visible .entry convpool(
	.param .u64 convpool_param_0,
	.param .u64 convpool_param_1,
	.param .u64 convpool_param_2,
	.param .u64 convpool_param_3
)
{
	.reg .pred 	%p<10>;
	.reg .f32 	%f<8>;
	.reg .b32 	%r<56>;
	.reg .b64 	%rd<24>;

	ld.param.u64 	%rd1, [convpool_param_0];
	ld.param.u64 	%rd2, [convpool_param_1];
	ld.param.u64 	%rd3, [convpool_param_2];
	ld.param.u64 	%rd4, [convpool_param_3];
	cvta.to.global.u64 	%rd5, %rd1;
	cvta.to.global.u64 	%rd6, %rd2;
	cvta.to.global.u64 	%rd7, %rd3;
	cvta.to.global.u64 	%rd8, %rd4;
	mov.u32 	%r1, %ctaid.z;
	mov.u32 	%r2, %nctaid.y;
	mov.u32 	%r3, %ctaid.y;
	mad.lo.s32 	%r4, %r1, %r2, %r3;
	mov.u32 	%r5, %nctaid.x;
	mov.u32 	%r6, %ctaid.x;
	mad.lo.s32 	%r7, %r4, %r5, %r6;
	mov.u32 	%r8, %ntid.x;
	mov.u32 	%r9, %ntid.y;
	mul.lo.s32 	%r10, %r8, %r9;
	mov.u32 	%r11, %tid.y;
	mov.u32 	%r12, %tid.x;
	mad.lo.s32 	%r13, %r11, %r8, %r12;
	mad.lo.s32 	%r14, %r7, %r10, %r13;
	ld.global.u32 	%r15, [%rd6];
	ld.global.u32 	%r16, [%rd6+4];
	ld.global.u32 	%r17, [%rd6+8];
	ld.global.u32 	%r18, [%rd6+12];
	ld.global.u32 	%r19, [%rd6+16];
	ld.global.u32 	%r20, [%rd6+20];
	mul.lo.s32 	%r21, %r18, %r19;
	mul.lo.s32 	%r22, %r15, %r21;
	setp.ge.s32 	%p1, %r14, %r22;
	@%p1 bra 	$L__BB0_8;

	div.s32 	%r23, %r14, %r21;
	rem.s32 	%r24, %r14, %r21;
	div.s32 	%r25, %r24, %r18;
	rem.s32 	%r26, %r24, %r18;
	mov.u32 	%r27, 0;
	mov.u32 	%r28, 0;
	mov.u32 	%r29, 0;
	setp.ge.s32 	%p2, %r27, %r19;
	@%p2 bra 	$L__BB0_3;

$L__BB0_1:
	mul.wide.s32 	%rd9, %r27, 4;
	add.s64 	%rd10, %rd6, %rd9;
	ld.global.u32 	%r30, [%rd10+24];
	mul.lo.s32 	%r31, %r30, %r17;
	mul.lo.s32 	%r31, %r31, %r18;
	add.s32 	%r29, %r29, %r31;
	setp.ge.s32 	%p3, %r27, %r25;
	@%p3 bra 	$L__BB0_2;
	add.s32 	%r28, %r28, %r31;

$L__BB0_2:
	add.s32 	%r27, %r27, 1;
	setp.lt.s32 	%p4, %r27, %r19;
	@%p4 bra 	$L__BB0_1;

$L__BB0_3:
	mul.wide.s32 	%rd11, %r25, 4;
	add.s64 	%rd12, %rd6, %rd11;
	ld.global.u32 	%r32, [%rd12+24];
	mul.lo.s32 	%r33, %r20, %r17;
	add.s32 	%r34, %r33, %r28;
	mul.lo.s32 	%r35, %r32, %r17;
	mad.lo.s32 	%r36, %r26, %r35, %r34;
	add.s32 	%r37, %r33, %r29;
	mad.lo.s32 	%r38, %r25, %r18, %r26;
	add.s32 	%r39, %r37, %r38;
	mul.wide.s32 	%rd13, %r39, 4;
	add.s64 	%rd14, %rd5, %rd13;
	ld.global.f32 	%f1, [%rd14];
	sub.s32 	%r40, %r16, %r32;
	add.s32 	%r41, %r40, 1;
	mov.f32 	%f2, 0f00000000;
	mov.u32 	%r42, 0;
	setp.ge.s32 	%p5, %r42, %r41;
	@%p5 bra 	$L__BB0_7;
	mul.lo.s32 	%r43, %r23, %r16;

$L__BB0_4:
	mov.f32 	%f3, %f1;
	mov.u32 	%r44, 0;

$L__BB0_5:
	add.s32 	%r45, %r43, %r42;
	add.s32 	%r45, %r45, %r44;
	mul.wide.s32 	%rd15, %r45, 4;
	add.s64 	%rd16, %rd7, %rd15;
	ld.global.u32 	%r46, [%rd16];
	mul.lo.s32 	%r47, %r46, %r17;
	mad.lo.s32 	%r48, %r44, %r17, %r36;
	mov.u32 	%r49, 0;

$L__BB0_6:
	add.s32 	%r50, %r48, %r49;
	mul.wide.s32 	%rd17, %r50, 4;
	add.s64 	%rd18, %rd5, %rd17;
	ld.global.f32 	%f4, [%rd18];
	add.s32 	%r51, %r47, %r49;
	mul.wide.s32 	%rd19, %r51, 4;
	add.s64 	%rd20, %rd5, %rd19;
	ld.global.f32 	%f5, [%rd20];
	fma.rn.f32 	%f3, %f4, %f5, %f3;
	add.s32 	%r49, %r49, 1;
	setp.lt.s32 	%p6, %r49, %r17;
	@%p6 bra 	$L__BB0_6;

	add.s32 	%r44, %r44, 1;
	setp.lt.s32 	%p7, %r44, %r32;
	@%p7 bra 	$L__BB0_5;

	max.f32 	%f2, %f2, %f3;
	add.s32 	%r42, %r42, 1;
	setp.lt.s32 	%p8, %r42, %r41;
	@%p8 bra 	$L__BB0_4;

$L__BB0_7:
	mul.wide.s32 	%rd21, %r14, 4;
	add.s64 	%rd22, %rd8, %rd21;
	st.global.f32 	[%rd22], %f2;

$L__BB0_8:
	ret;

}
`
